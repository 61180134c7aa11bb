// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runagg groups benchmark runs by configuration and averages
// their measurements.
//
// Runs are grouped by their full configuration key: input file,
// method, thread count, schedule, sequence lengths and scoring
// parameters. Runs that differ in any of these are never averaged
// together. Within a group, each measure is averaged over the runs
// where it is present; a missing or unparseable cell only removes that
// value, not the run.
package runagg

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/nwalign/nwperf/runfmt"
)

// ErrNoRows is returned by Aggregate when there are no valid runs.
var ErrNoRows = errors.New("no valid rows to aggregate")

// DefaultWarmupRatio is the default Builder.WarmupRatio.
const DefaultWarmupRatio = 2

// A Key identifies a configuration. Fields whose column is absent
// from the input are zero.
type Key struct {
	File     string
	Method   string
	Threads  int
	Schedule string
	LengthA  int
	LengthB  int
	Match    int
	Mismatch int
	Gap      int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d/%s/%dx%d/%d,%d,%d", k.File, k.Method, k.Threads, k.Schedule, k.LengthA, k.LengthB, k.Match, k.Mismatch, k.Gap)
}

// IsSequential reports whether k is a sequential configuration.
func (k Key) IsSequential() bool {
	return k.Method == runfmt.SequentialMethod
}

// A Builder collects runs into groups.
type Builder struct {
	// WarmupRatio is the factor by which the init time of a group's
	// first repetition must exceed the mean of the other
	// repetitions to be reported as a warm-up outlier. Zero
	// disables the check.
	WarmupRatio float64

	cols runfmt.Columns

	groups map[Key]*Group
	// order is the groups in first-observation order.
	order []*Group

	rows    int
	missing [runfmt.NumMeasures]int
}

// NewBuilder returns a Builder that groups by the key columns in cols
// and averages the measures in cols.
func NewBuilder(cols runfmt.Columns) *Builder {
	return &Builder{
		WarmupRatio: DefaultWarmupRatio,
		cols:        cols,
		groups:      make(map[Key]*Group),
	}
}

// Columns returns the columns the Builder groups and averages by.
func (b *Builder) Columns() runfmt.Columns {
	return b.cols
}

// key projects r onto the Builder's key columns.
func (b *Builder) key(r *runfmt.Run) Key {
	var k Key
	for _, f := range b.cols.Keys {
		switch f {
		case runfmt.File:
			k.File = r.File
		case runfmt.Method:
			k.Method = r.Method
		case runfmt.Threads:
			k.Threads = r.Threads
		case runfmt.Schedule:
			k.Schedule = r.Schedule
		case runfmt.LengthA:
			k.LengthA = r.LengthA
		case runfmt.LengthB:
			k.LengthB = r.LengthB
		case runfmt.Match:
			k.Match = r.Match
		case runfmt.Mismatch:
			k.Mismatch = r.Mismatch
		case runfmt.Gap:
			k.Gap = r.Gap
		}
	}
	return k
}

// Add adds run r to its group.
func (b *Builder) Add(r *runfmt.Run) {
	k := b.key(r)
	g := b.groups[k]
	if g == nil {
		g = &Group{Key: k}
		b.groups[k] = g
		b.order = append(b.order, g)
	}
	g.Count++
	b.rows++
	for _, f := range b.cols.Measures {
		i := f.MeasureIndex()
		v := r.Values[i]
		if math.IsNaN(v) {
			b.missing[i]++
			continue
		}
		g.values[i] = append(g.values[i], v)
	}
	g.reps = append(g.reps, repInit{r.Repetition, r.Value(runfmt.Init)})
}

// Rows returns the number of runs added.
func (b *Builder) Rows() int {
	return b.rows
}

// Missing returns the number of missing cells of measure f among the
// runs added.
func (b *Builder) Missing(f runfmt.Field) int {
	return b.missing[f.MeasureIndex()]
}

// Groups computes the aggregated groups, in the order their keys were
// first observed.
func (b *Builder) Groups() []*Group {
	out := make([]*Group, len(b.order))
	for i, g := range b.order {
		g.finish(b.cols, b.WarmupRatio)
		out[i] = g
	}
	return out
}

// Aggregate groups runs by their configuration key over the columns
// cols and returns one Group per key, in first-observation order.
// It returns ErrNoRows if runs is empty.
func Aggregate(runs []*runfmt.Run, cols runfmt.Columns) ([]*Group, error) {
	if len(runs) == 0 {
		return nil, ErrNoRows
	}
	b := NewBuilder(cols)
	for _, r := range runs {
		b.Add(r)
	}
	return b.Groups(), nil
}

// A RecordReader is a source of run records, such as a *runfmt.Reader
// or *runfmt.Files.
type RecordReader interface {
	Scan() bool
	Result() runfmt.Record
	Err() error
}

// Collect reads every record from rr and separates the runs from the
// rows that could not be used. The error is the fatal error of rr, if
// any.
func Collect(rr RecordReader) (runs []*runfmt.Run, skipped []*runfmt.SyntaxError, err error) {
	for rr.Scan() {
		switch rec := rr.Result().(type) {
		case *runfmt.Run:
			runs = append(runs, rec)
		case *runfmt.SyntaxError:
			skipped = append(skipped, rec)
		}
	}
	return runs, skipped, rr.Err()
}

// mean returns the sum of xs in order divided by len(xs), or NaN if xs
// is empty.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev returns the sample standard deviation of xs, or NaN if there
// are fewer than two values.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stats.StdDev(xs)
}
