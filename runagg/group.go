// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runagg

import (
	"fmt"
	"math"

	"github.com/nwalign/nwperf/runfmt"
)

// A Group is the aggregate of all runs of one configuration.
type Group struct {
	Key Key

	// Count is the number of runs in the group, including runs
	// with missing measures.
	Count int

	// N is the number of values that contributed to each measure,
	// indexed by runfmt.Field.MeasureIndex.
	N [runfmt.NumMeasures]int

	// Mean is the arithmetic mean of each measure, or NaN if the
	// measure has no values.
	Mean [runfmt.NumMeasures]float64

	// StdDev is the sample standard deviation of each measure, or
	// NaN if it has fewer than two values.
	StdDev [runfmt.NumMeasures]float64

	// Warnings are data quality issues found in the group's runs.
	// They do not affect the statistics.
	Warnings []error

	values [runfmt.NumMeasures][]float64
	reps   []repInit
}

type repInit struct {
	rep  int
	init float64
}

// A WarmupWarning reports a group whose first repetition spent much
// longer in initialization than the others, typically because caches
// and allocator state were cold.
type WarmupWarning struct {
	Key        Key
	Repetition int
	Init       float64
	RestMean   float64
}

func (w *WarmupWarning) Error() string {
	return fmt.Sprintf("%v: repetition %d init %.4g ms is %.1fx the mean of the other repetitions (%.4g ms); speedups may be inflated", w.Key, w.Repetition, w.Init, w.Init/w.RestMean, w.RestMean)
}

func (g *Group) finish(cols runfmt.Columns, warmupRatio float64) {
	for i := range g.Mean {
		g.N[i] = len(g.values[i])
		g.Mean[i] = mean(g.values[i])
		g.StdDev[i] = stdDev(g.values[i])
	}
	g.Warnings = g.Warnings[:0]
	if warmupRatio > 0 && cols.Has(runfmt.Init) {
		if w := g.checkWarmup(warmupRatio); w != nil {
			g.Warnings = append(g.Warnings, w)
		}
	}
}

// checkWarmup compares the init time of the earliest repetition with
// the mean of the rest. The earliest repetition is the one with the
// lowest index, or the first in input order if there are no indexes.
func (g *Group) checkWarmup(ratio float64) *WarmupWarning {
	if len(g.reps) < 2 {
		return nil
	}
	first := 0
	for i, r := range g.reps {
		if r.rep >= 0 && (g.reps[first].rep < 0 || r.rep < g.reps[first].rep) {
			first = i
		}
	}
	if math.IsNaN(g.reps[first].init) {
		return nil
	}
	var rest []float64
	for i, r := range g.reps {
		if i != first && !math.IsNaN(r.init) {
			rest = append(rest, r.init)
		}
	}
	restMean := mean(rest)
	if !(restMean > 0) || g.reps[first].init <= ratio*restMean {
		return nil
	}
	return &WarmupWarning{g.Key, g.reps[first].rep, g.reps[first].init, restMean}
}

// Value returns the mean of measure f.
func (g *Group) Value(f runfmt.Field) float64 {
	return g.Mean[f.MeasureIndex()]
}

// Values returns the individual values of measure f, in input order.
// The caller must not modify the result.
func (g *Group) Values(f runfmt.Field) []float64 {
	return g.values[f.MeasureIndex()]
}

// Run returns the group as an aggregated run record, suitable for
// runfmt.Writer.
func (g *Group) Run() *runfmt.Run {
	r := runfmt.NewRun()
	r.File, r.Method, r.Threads, r.Schedule = g.Key.File, g.Key.Method, g.Key.Threads, g.Key.Schedule
	r.LengthA, r.LengthB = g.Key.LengthA, g.Key.LengthB
	r.Match, r.Mismatch, r.Gap = g.Key.Match, g.Key.Mismatch, g.Key.Gap
	r.Count = g.Count
	r.Values = g.Mean
	return r
}

// Info returns what the input file name says about the group's
// sequences.
func (g *Group) Info() runfmt.FileInfo {
	return runfmt.ParseFileName(g.Key.File)
}

// IsSequential reports whether g was measured with the sequential
// method.
func (g *Group) IsSequential() bool {
	return g.Key.IsSequential()
}

// Sequential returns the groups measured with the sequential method.
func Sequential(groups []*Group) []*Group {
	var out []*Group
	for _, g := range groups {
		if g.IsSequential() {
			out = append(out, g)
		}
	}
	return out
}

// Parallel returns the groups measured with a parallel method.
func Parallel(groups []*Group) []*Group {
	var out []*Group
	for _, g := range groups {
		if !g.IsSequential() {
			out = append(out, g)
		}
	}
	return out
}
