// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedup

import (
	"fmt"
	"math"

	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/runmath"
)

// An Analysis compares the observed speedup at each thread count with
// the Amdahl's law projection for the sequential phase breakdown.
type Analysis struct {
	// Init, Fill, Traceback and Total are the mean phase times of
	// the sequential baselines, in milliseconds.
	Init, Fill, Traceback, Total float64

	// P is the parallelizable fraction of the sequential runs.
	P float64

	// Limit is the Amdahl speedup bound for unlimited threads.
	Limit float64

	// Steps has one entry per thread count, in increasing order.
	Steps []Step

	// Warnings lists observed speedups that exceed the projection and
	// a parallel fraction outside [0, 1].
	Warnings []error
}

// A Step is the comparison at one thread count.
type Step struct {
	Threads int

	// Schedule is the schedule with the lowest mean total time at
	// this thread count and Parallel is that time.
	Schedule string
	Parallel float64

	Speedup    float64
	Efficiency float64
	Projected  float64
}

// Ratio returns the fraction of the projected speedup achieved.
func (s Step) Ratio() float64 {
	return s.Speedup / s.Projected
}

// Analyze computes the Amdahl analysis of t. The sequential time is
// the mean over all baselines and the parallel time at each thread
// count is that of its best schedule.
func Analyze(t *Table) (*Analysis, error) {
	base := t.Baselines.Groups()
	p, err := runmath.ParallelFraction(base)
	if err != nil {
		return nil, err
	}
	phase := func(f runfmt.Field) float64 {
		xs := make([]float64, len(base))
		for i, g := range base {
			xs[i] = g.Value(f)
		}
		return runmath.Summarize(xs).Mean
	}
	a := &Analysis{
		Init:      phase(runfmt.Init),
		Fill:      phase(runfmt.Fill),
		Traceback: phase(runfmt.Traceback),
		Total:     phase(runfmt.Total),
		P:         p,
		Limit:     runmath.AmdahlLimit(p),
	}
	if !(p >= 0 && p <= 1) {
		a.Warnings = append(a.Warnings, fmt.Errorf("parallel fraction %.4f is outside [0, 1]; Amdahl projections are undefined", p))
	}
	for _, bs := range BestSchedules(t.Rows) {
		s := runmath.Speedup(a.Total, bs.Total)
		a.Steps = append(a.Steps, Step{
			Threads:    bs.Threads,
			Schedule:   bs.Schedule,
			Parallel:   bs.Total,
			Speedup:    s,
			Efficiency: runmath.Efficiency(s, bs.Threads),
			Projected:  runmath.Amdahl(p, float64(bs.Threads)),
		})
		if w := runmath.CheckAmdahlBound(s, p, bs.Threads, BoundTolerance); w != nil {
			a.Warnings = append(a.Warnings, w)
		}
	}
	return a, nil
}

// Last returns the step with the most threads.
func (a *Analysis) Last() (Step, bool) {
	if len(a.Steps) == 0 {
		return Step{}, false
	}
	return a.Steps[len(a.Steps)-1], true
}

// A Verdict classifies how close the observed speedup comes to the
// Amdahl projection.
type Verdict int

const (
	Unknown Verdict = iota
	Poor
	Good
	Excellent
)

// Verdict classifies the ratio of observed to projected speedup at
// the largest thread count: above 0.8 is excellent, above 0.6 good.
func (a *Analysis) Verdict() Verdict {
	last, ok := a.Last()
	if !ok {
		return Unknown
	}
	switch r := last.Ratio(); {
	case math.IsNaN(r):
		return Unknown
	case r > 0.8:
		return Excellent
	case r > 0.6:
		return Good
	}
	return Poor
}

func (v Verdict) String() string {
	switch v {
	case Poor:
		return "poor"
	case Good:
		return "good"
	case Excellent:
		return "excellent"
	}
	return "unknown"
}
