// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedup

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

func grp(file, method string, threads int, schedule string, lengthA int, total float64) *runagg.Group {
	g := &runagg.Group{
		Key:   runagg.Key{File: file, Method: method, Threads: threads, Schedule: schedule, LengthA: lengthA, LengthB: lengthA, Match: 2, Gap: -2},
		Count: 1,
	}
	for i := range g.Mean {
		g.Mean[i] = math.NaN()
	}
	g.Mean[runfmt.Total.MeasureIndex()] = total
	return g
}

func TestCompare(t *testing.T) {
	groups := []*runagg.Group{
		grp("data/dna_1k.fasta", "secuencial", 1, "", 1000, 200),
		grp(`data\dna_1k.fasta`, "bloques", 4, "static", 1000, 50),
		grp("other/dna_1k_b.fasta", "bloques", 2, "static", 1000, 100),
		grp("data/dna_2k.fasta", "bloques", 4, "static", 2000, 100),
		grp("data/dna_1k.fasta", "antidiagonal", 4, "static", 1000, 0),
	}
	tab, err := Compare(groups)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 3)

	r := tab.Rows[0]
	if r.Speedup != 4 || r.Efficiency != 100 || r.Match != ByFile {
		t.Errorf("windows path row: speedup %v efficiency %v match %v, want 4, 100, file", r.Speedup, r.Efficiency, r.Match)
	}
	if r := tab.Rows[1]; r.Speedup != 2 || r.Match != ByLength {
		t.Errorf("length fallback row: speedup %v match %v, want 2, length", r.Speedup, r.Match)
	}
	if r := tab.Rows[2]; !math.IsInf(r.Speedup, 1) {
		t.Errorf("zero parallel time: speedup %v, want +Inf", r.Speedup)
	}

	require.Len(t, tab.Unmatched, 1)
	if tab.Unmatched[0].Key.File != "data/dna_2k.fasta" {
		t.Errorf("unmatched = %v, want dna_2k", tab.Unmatched[0].Key)
	}
	var mb *MissingBaselineError
	if len(tab.Warnings) != 1 || !errors.As(tab.Warnings[0], &mb) {
		t.Errorf("warnings = %v, want one *MissingBaselineError", tab.Warnings)
	}

	if diff := cmp.Diff([]string{"data/dna_1k.fasta", "other/dna_1k_b.fasta"}, tab.Files()); diff != "" {
		t.Errorf("files differ (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 4}, tab.Threads()); diff != "" {
		t.Errorf("threads differ (-want +got):\n%s", diff)
	}
}

func TestCompareErrors(t *testing.T) {
	_, err := Compare([]*runagg.Group{grp("a.fasta", "bloques", 4, "static", 10, 1)})
	if !errors.Is(err, ErrNoSequential) {
		t.Errorf("no sequential: got %v", err)
	}
	_, err = Compare([]*runagg.Group{grp("a.fasta", "secuencial", 1, "", 10, 1)})
	if !errors.Is(err, ErrNoParallel) {
		t.Errorf("no parallel: got %v", err)
	}
}

func TestLookupPrefersMatchingParameters(t *testing.T) {
	other := grp("a.fasta", "secuencial", 1, "", 10, 100)
	other.Key.Gap = -1
	same := grp("a.fasta", "secuencial", 1, "", 10, 50)
	b := NewBaselines([]*runagg.Group{other, same})
	got, kind, ok := b.Lookup(grp("a.fasta", "bloques", 4, "static", 10, 5))
	if !ok || got != same || kind != ByFile {
		t.Errorf("Lookup = %v, %v, %v, want the gap -2 baseline by file", got, kind, ok)
	}
}

func rowsOf(t *testing.T, groups ...*runagg.Group) []*Row {
	t.Helper()
	tab, err := Compare(groups)
	require.NoError(t, err)
	return tab.Rows
}

func schedules(rows []*Row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.Group.Key.Schedule)
	}
	return out
}

func TestBest(t *testing.T) {
	rows := rowsOf(t,
		grp("a.fasta", "secuencial", 1, "", 2048, 100),
		grp("a.fasta", "bloques", 4, "static", 2048, 50),
		grp("a.fasta", "bloques", 4, "dynamic,1", 2048, 40),
		grp("a.fasta", "bloques", 4, "guided,1", 2048, 40),
		grp("a.fasta", "bloques", 8, "static", 2048, 30),
		grp("a.fasta", "antidiagonal", 4, "static", 2048, 60),
	)
	best := DefaultPolicy.Best(rows)
	want := []string{"dynamic,1", "static", "static"}
	if diff := cmp.Diff(want, schedules(best)); diff != "" {
		t.Errorf("best schedules differ (-want +got):\n%s", diff)
	}
	if got := DominantSchedule(best); got != "static" {
		t.Errorf("dominant schedule = %q, want static", got)
	}
	if got := DominantSchedule(best[:1]); got != "dynamic,1" {
		t.Errorf("dominant of one = %q, want dynamic,1", got)
	}
}

func TestDominantScheduleTie(t *testing.T) {
	rows := rowsOf(t,
		grp("a.fasta", "secuencial", 1, "", 10, 100),
		grp("a.fasta", "bloques", 2, "static", 10, 50),
		grp("a.fasta", "bloques", 4, "guided,1", 10, 50),
		grp("a.fasta", "bloques", 8, "dynamic,1", 10, 50),
	)
	if got := DominantSchedule(rows); got != "dynamic,1" {
		t.Errorf("dominant schedule = %q, want dynamic,1", got)
	}
	if got := DominantSchedule(nil); got != "" {
		t.Errorf("dominant of nothing = %q, want empty", got)
	}
}

func TestRepresentative(t *testing.T) {
	rows := rowsOf(t,
		grp("a.fasta", "secuencial", 1, "", 512, 10),
		grp("b.fasta", "secuencial", 1, "", 4096, 100),
		grp("a.fasta", "bloques", 4, "static", 512, 10),
		grp("b.fasta", "bloques", 4, "static", 4096, 40),
	)
	got, ok := DefaultPolicy.Representative(rows)
	if !ok || len(got) != 1 || got[0].Group.Key.File != "b.fasta" {
		t.Errorf("Representative = %d rows, %v; want only b.fasta", len(got), ok)
	}
	got, ok = DefaultPolicy.Representative(rows[:1])
	if ok || len(got) != 1 {
		t.Errorf("Representative of small inputs = %d rows, %v; want fallback to all", len(got), ok)
	}

	if got := DefaultPolicy.IdealMax(16); got != 8 {
		t.Errorf("IdealMax(16) = %d, want 8", got)
	}
	if got := DefaultPolicy.IdealMax(4); got != 4 {
		t.Errorf("IdealMax(4) = %d, want 4", got)
	}
}

func TestFastest(t *testing.T) {
	rows := rowsOf(t,
		grp("a.fasta", "secuencial", 1, "", 10, 100),
		grp("a.fasta", "bloques", 4, "static", 10, 50),
		grp("a.fasta", "bloques", 4, "dynamic,1", 10, 30),
		grp("a.fasta", "bloques", 4, "guided,1", 10, math.NaN()),
		grp("a.fasta", "antidiagonal", 4, "static", 10, 30),
		grp("b.fasta", "secuencial", 1, "", 20, 100),
		grp("b.fasta", "bloques", 4, "static", 20, 1),
	)
	got := Fastest(rows, "a.fasta", 3)
	if diff := cmp.Diff([]string{"static", "dynamic,1", "static"}, schedules(got)); diff != "" {
		t.Errorf("fastest schedules differ (-want +got):\n%s", diff)
	}
	if got[0].Group.Key.Method != "antidiagonal" {
		t.Errorf("fastest = %v, want antidiagonal first on the tie", got[0].Group.Key)
	}
	if n := len(Fastest(rows, "a.fasta", 10)); n != 4 {
		t.Errorf("Fastest(10) returned %d rows, want 4", n)
	}
}

func TestScheduleCounts(t *testing.T) {
	rows := rowsOf(t,
		grp("a.fasta", "secuencial", 1, "", 10, 100),
		grp("b.fasta", "secuencial", 1, "", 20, 100),
		grp("a.fasta", "bloques", 4, "static", 10, 50),
		grp("b.fasta", "bloques", 4, "dynamic,1", 20, 50),
		grp("c.fasta", "bloques", 4, "dynamic,1", 20, 50),
	)
	want := []ScheduleCount{
		{"bloques", 4, "dynamic,1", 2},
		{"bloques", 4, "static", 1},
	}
	if diff := cmp.Diff(want, ScheduleCounts(rows)); diff != "" {
		t.Errorf("counts differ (-want +got):\n%s", diff)
	}
}

func TestCurve(t *testing.T) {
	rows := rowsOf(t,
		grp("a.fasta", "secuencial", 1, "", 10, 120),
		grp("a.fasta", "bloques", 4, "static", 10, 40),
		grp("a.fasta", "bloques", 2, "static", 10, 80),
		grp("a.fasta", "antidiagonal", 4, "static", 10, 60),
		grp("a.fasta", "antidiagonal", 8, "static", 10, 0),
	)
	want := []Point{{2, 1.5, 1}, {4, 2.5, 2}}
	if diff := cmp.Diff(want, Curve(rows)); diff != "" {
		t.Errorf("curve differs (-want +got):\n%s", diff)
	}
	if Curve(nil) != nil {
		t.Errorf("Curve(nil) is not nil")
	}

	pts := CompareAmdahl([]Point{{2, 1.5, 1}, {4, 3.9, 1}}, 0.75)
	if pts[0].Warning != nil {
		t.Errorf("1.5x at 2 threads flagged: %v", pts[0].Warning)
	}
	if pts[1].Warning == nil {
		t.Errorf("3.9x at 4 threads with p=0.75 not flagged")
	}
	if want := 1.5 / (1 / (0.25 + 0.75/2)); math.Abs(pts[0].Ratio-want) > 1e-12 {
		t.Errorf("ratio = %v, want %v", pts[0].Ratio, want)
	}
}

func TestBestSchedules(t *testing.T) {
	rows := rowsOf(t,
		grp("a.fasta", "secuencial", 1, "", 10, 100),
		grp("b.fasta", "secuencial", 1, "", 20, 100),
		grp("a.fasta", "bloques", 4, "static", 10, 50),
		grp("b.fasta", "bloques", 4, "static", 20, 30),
		grp("a.fasta", "bloques", 4, "dynamic,1", 10, 45),
		grp("b.fasta", "bloques", 4, "dynamic,1", 20, 45),
		grp("a.fasta", "bloques", 2, "guided,1", 10, 70),
	)
	want := []ScheduleTime{
		{2, "guided,1", 70},
		{4, "static", 40},
	}
	if diff := cmp.Diff(want, BestSchedules(rows), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("best schedules differ (-want +got):\n%s", diff)
	}
}

func TestBestSchedulesInterleaved(t *testing.T) {
	// Schedules first seen at every thread count before the next
	// schedule, with the later schedule faster everywhere.
	groups := []*runagg.Group{
		seqGroup("a.fasta", 15, 75, 10, 100),
		grp("a.fasta", "bloques", 4, "static", 10, 40),
		grp("a.fasta", "bloques", 2, "static", 10, 60),
		grp("a.fasta", "bloques", 4, "dynamic,1", 10, 35),
		grp("a.fasta", "bloques", 2, "dynamic,1", 10, 55),
		grp("a.fasta", "bloques", 2, "guided,1", 10, 55),
	}
	want := []ScheduleTime{
		{2, "dynamic,1", 55},
		{4, "dynamic,1", 35},
	}
	if diff := cmp.Diff(want, BestSchedules(rowsOf(t, groups...))); diff != "" {
		t.Errorf("best schedules differ (-want +got):\n%s", diff)
	}

	tab, err := Compare(groups)
	if err != nil {
		t.Fatal(err)
	}
	a, err := Analyze(tab)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Steps) != 2 {
		t.Fatalf("got %d steps, want 2: %+v", len(a.Steps), a.Steps)
	}
	last, _ := a.Last()
	if last.Threads != 4 || last.Schedule != "dynamic,1" || last.Parallel != 35 {
		t.Errorf("last step = %+v, want 4 threads, dynamic,1, 35 ms", last)
	}
}
