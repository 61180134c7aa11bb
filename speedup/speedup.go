// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package speedup compares parallel benchmark runs against their
// sequential baselines.
//
// A parallel group's baseline is the sequential group of the same
// input file. Files are compared after normalizing path separators. If
// a file has no sequential group, the baseline is the sequential group
// with the same sequence A length. A parallel group with neither is
// reported in Table.Unmatched; it is never given a default speedup.
package speedup

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/runmath"
)

var (
	// ErrNoSequential is returned by Compare when there are no
	// sequential groups to use as baselines.
	ErrNoSequential = errors.New("no sequential results")

	// ErrNoParallel is returned by Compare when there are no
	// parallel groups.
	ErrNoParallel = errors.New("no parallel results")
)

// A MatchKind records how a baseline was found.
type MatchKind int

const (
	ByFile MatchKind = iota
	ByLength
)

func (m MatchKind) String() string {
	switch m {
	case ByFile:
		return "file"
	case ByLength:
		return "length"
	}
	return fmt.Sprintf("MatchKind(%d)", int(m))
}

// Baselines indexes sequential groups for baseline lookup.
type Baselines struct {
	byFile   map[string][]*runagg.Group
	byLength map[int][]*runagg.Group
	groups   []*runagg.Group
}

// NewBaselines indexes the sequential groups among groups.
func NewBaselines(groups []*runagg.Group) *Baselines {
	b := &Baselines{
		byFile:   make(map[string][]*runagg.Group),
		byLength: make(map[int][]*runagg.Group),
	}
	for _, g := range runagg.Sequential(groups) {
		file := runfmt.NormalizePath(g.Key.File)
		b.byFile[file] = append(b.byFile[file], g)
		b.byLength[g.Key.LengthA] = append(b.byLength[g.Key.LengthA], g)
		b.groups = append(b.groups, g)
	}
	return b
}

// Groups returns the indexed sequential groups in input order.
func (b *Baselines) Groups() []*runagg.Group {
	return b.groups
}

// Lookup returns the baseline for parallel group g. Among several
// candidates it prefers one with the same scoring parameters and
// lengths, and otherwise the first observed.
func (b *Baselines) Lookup(g *runagg.Group) (*runagg.Group, MatchKind, bool) {
	if cands := b.byFile[runfmt.NormalizePath(g.Key.File)]; len(cands) > 0 {
		return pick(cands, g), ByFile, true
	}
	if cands := b.byLength[g.Key.LengthA]; len(cands) > 0 {
		return pick(cands, g), ByLength, true
	}
	return nil, 0, false
}

func pick(cands []*runagg.Group, g *runagg.Group) *runagg.Group {
	for _, c := range cands {
		if c.Key.LengthA == g.Key.LengthA && c.Key.LengthB == g.Key.LengthB &&
			c.Key.Match == g.Key.Match && c.Key.Mismatch == g.Key.Mismatch && c.Key.Gap == g.Key.Gap {
			return c
		}
	}
	return cands[0]
}

// A Row is one parallel group compared against its baseline.
type Row struct {
	Group    *runagg.Group
	Baseline *runagg.Group
	Match    MatchKind

	// Speedup is the baseline total time over the group's total
	// time.
	Speedup float64

	// Efficiency is Speedup per thread, as a percentage.
	Efficiency float64
}

// Threads returns the thread count of the row's group.
func (r *Row) Threads() int { return r.Group.Key.Threads }

// A MissingBaselineError reports a parallel group with no sequential
// baseline.
type MissingBaselineError struct {
	Key runagg.Key
}

func (e *MissingBaselineError) Error() string {
	return fmt.Sprintf("%v: no sequential baseline for file %s or length %d", e.Key, e.Key.File, e.Key.LengthA)
}

// A Table is the comparison of every parallel group with a baseline.
type Table struct {
	Baselines *Baselines

	// Rows are the matched parallel groups in input order.
	Rows []*Row

	// Unmatched are parallel groups with no baseline.
	Unmatched []*runagg.Group

	// Warnings is a list of data quality issues, including one
	// *MissingBaselineError per unmatched group.
	Warnings []error
}

// Compare computes the speedup and efficiency of every parallel group
// among groups.
func Compare(groups []*runagg.Group) (*Table, error) {
	base := NewBaselines(groups)
	if len(base.groups) == 0 {
		return nil, ErrNoSequential
	}
	par := runagg.Parallel(groups)
	if len(par) == 0 {
		return nil, ErrNoParallel
	}
	t := &Table{Baselines: base}
	for _, g := range par {
		bg, kind, ok := base.Lookup(g)
		if !ok {
			t.Unmatched = append(t.Unmatched, g)
			t.Warnings = append(t.Warnings, &MissingBaselineError{g.Key})
			continue
		}
		s := runmath.Speedup(bg.Value(runfmt.Total), g.Value(runfmt.Total))
		t.Rows = append(t.Rows, &Row{
			Group:      g,
			Baseline:   bg,
			Match:      kind,
			Speedup:    s,
			Efficiency: runmath.Efficiency(s, g.Key.Threads),
		})
	}
	return t, nil
}

// Files returns the distinct input files of the rows, in input order.
func (t *Table) Files() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		f := runfmt.NormalizePath(r.Group.Key.File)
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Threads returns the distinct thread counts of the rows, sorted.
func (t *Table) Threads() []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range t.Rows {
		if !seen[r.Threads()] {
			seen[r.Threads()] = true
			out = append(out, r.Threads())
		}
	}
	sort.Ints(out)
	return out
}
