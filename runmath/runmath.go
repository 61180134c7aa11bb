// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runmath derives phase percentages, speedup, efficiency and
// Amdahl's law projections from aggregated benchmark runs.
//
// Functions in this package never fail on degenerate input. A zero
// or missing denominator produces NaN or +Inf as documented, and data
// quality problems are returned as warnings alongside the result.
package runmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

// ErrNoSequential is returned when an estimate needs sequential runs
// and there are none.
var ErrNoSequential = errors.New("no sequential runs")

// Percentages is the share of a run's total time spent in each phase.
type Percentages struct {
	Init, Fill, Traceback float64

	// Warnings is a list of data quality issues. They do not make
	// the percentages invalid.
	Warnings []error
}

// Sum returns the sum of the three phase percentages.
func (p Percentages) Sum() float64 {
	return p.Init + p.Fill + p.Traceback
}

// A PercentSumWarning reports phase percentages that do not add up to
// 100%, which means the phase timers do not cover the total timer.
type PercentSumWarning struct {
	Sum float64
}

func (w *PercentSumWarning) Error() string {
	return fmt.Sprintf("phase percentages sum to %.2f%%, not 100%%", w.Sum)
}

// PhasePercentages returns each phase time as a percentage of total.
// If total is zero or NaN, every percentage is NaN.
func PhasePercentages(init, fill, traceback, total float64) Percentages {
	if total == 0 || math.IsNaN(total) {
		nan := math.NaN()
		return Percentages{Init: nan, Fill: nan, Traceback: nan}
	}
	p := Percentages{
		Init:      init / total * 100,
		Fill:      fill / total * 100,
		Traceback: traceback / total * 100,
	}
	if sum := p.Sum(); !math.IsNaN(sum) && (sum < 99.9 || sum > 100.1) {
		p.Warnings = append(p.Warnings, &PercentSumWarning{sum})
	}
	return p
}

// GroupPercentages returns the phase percentages of g's mean times.
func GroupPercentages(g *runagg.Group) Percentages {
	return PhasePercentages(g.Value(runfmt.Init), g.Value(runfmt.Fill), g.Value(runfmt.Traceback), g.Value(runfmt.Total))
}

// Speedup returns seq / par. If par is zero the speedup is +Inf.
func Speedup(seq, par float64) float64 {
	if par == 0 {
		return math.Inf(1)
	}
	return seq / par
}

// Efficiency returns speedup per thread as a percentage. It is NaN if
// threads is not positive.
func Efficiency(speedup float64, threads int) float64 {
	if threads <= 0 {
		return math.NaN()
	}
	return speedup / float64(threads) * 100
}

// Amdahl returns the speedup predicted by Amdahl's law for a program
// whose parallelizable fraction is p, run on n threads:
//
//	1 / ((1-p) + p/n)
//
// It returns NaN if p is outside [0, 1] or n < 1.
func Amdahl(p, n float64) float64 {
	if !(p >= 0 && p <= 1) || !(n >= 1) {
		return math.NaN()
	}
	return 1 / ((1 - p) + p/n)
}

// AmdahlLimit returns the speedup bound 1/(1-p) as the thread count
// grows without limit. It is +Inf for p == 1 and NaN if p is outside
// [0, 1].
func AmdahlLimit(p float64) float64 {
	if !(p >= 0 && p <= 1) {
		return math.NaN()
	}
	if p == 1 {
		return math.Inf(1)
	}
	return 1 / (1 - p)
}

// ParallelFraction estimates the parallelizable fraction p of the
// sequential algorithm as the mean, over the sequential groups, of
// fill time / total time.
//
// This treats the matrix fill as the only parallel phase and the
// init and traceback phases as entirely serial. That is a modeling
// simplification: real parallel methods also change init costs.
// Groups whose fraction is not a finite number are ignored. The mean
// is not clamped: a phase breakdown whose fill exceeds its total gives
// p > 1, for which Amdahl and AmdahlLimit return NaN.
func ParallelFraction(groups []*runagg.Group) (float64, error) {
	var fracs []float64
	for _, g := range groups {
		if !g.IsSequential() {
			continue
		}
		total := g.Value(runfmt.Total)
		if total == 0 {
			continue
		}
		f := g.Value(runfmt.Fill) / total
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		fracs = append(fracs, f)
	}
	if len(fracs) == 0 {
		return math.NaN(), ErrNoSequential
	}
	return vec.Sum(fracs) / float64(len(fracs)), nil
}

// An AmdahlBoundWarning reports an observed speedup above the
// Amdahl's law projection. This usually means the sequential baseline
// includes costs the parallel run does not pay, such as a cold first
// repetition.
type AmdahlBoundWarning struct {
	Threads  int
	Observed float64
	Bound    float64
}

func (w *AmdahlBoundWarning) Error() string {
	return fmt.Sprintf("observed speedup %.3fx at %d threads exceeds the Amdahl projection %.3fx", w.Observed, w.Threads, w.Bound)
}

// CheckAmdahlBound returns an *AmdahlBoundWarning if observed exceeds
// Amdahl(p, threads) by more than tolerance (a fraction, such as 0.05
// for 5%), and nil otherwise.
func CheckAmdahlBound(observed, p float64, threads int, tolerance float64) error {
	bound := Amdahl(p, float64(threads))
	if math.IsNaN(bound) || math.IsNaN(observed) {
		return nil
	}
	if observed > bound*(1+tolerance) {
		return &AmdahlBoundWarning{threads, observed, bound}
	}
	return nil
}
