// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedup

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/runmath"
)

// A Point is the mean speedup observed at one thread count.
type Point struct {
	Threads int
	Speedup float64
	// N is the number of rows averaged.
	N int
}

// Curve returns the mean speedup of rows at each thread count, in
// increasing thread order. Rows whose speedup is not finite are left
// out.
func Curve(rows []*Row) []Point {
	var threads []int
	var speedups []float64
	for _, r := range rows {
		if math.IsNaN(r.Speedup) || math.IsInf(r.Speedup, 0) {
			continue
		}
		threads = append(threads, r.Threads())
		speedups = append(speedups, r.Speedup)
	}
	if len(threads) == 0 {
		return nil
	}
	tab := new(table.Builder).Add("threads", threads).Add("speedup", speedups).Done()

	flat := table.Flatten(ggstat.Agg("threads")(ggstat.AggMean("speedup"), ggstat.AggCount("n")).F(tab))

	xs := flat.MustColumn("threads").([]int)
	ys := flat.MustColumn("mean speedup").([]float64)
	ns := flat.MustColumn("n").([]int)
	out := make([]Point, len(xs))
	for i := range xs {
		out[i] = Point{Threads: xs[i], Speedup: ys[i], N: ns[i]}
	}
	// Agg keeps first-seen group order.
	sort.Slice(out, func(i, j int) bool { return out[i].Threads < out[j].Threads })
	return out
}

// An AmdahlPoint pairs an observed speedup with the Amdahl's law
// projection at the same thread count.
type AmdahlPoint struct {
	Point
	Projected float64

	// Ratio is Speedup / Projected, the fraction of the projected
	// speedup actually achieved.
	Ratio float64

	// Warning is non-nil if the observed speedup exceeds the
	// projection.
	Warning error
}

// BoundTolerance is the relative excess over the Amdahl projection
// tolerated before an observed speedup is flagged.
const BoundTolerance = 0.05

// CompareAmdahl compares each point of curve with the Amdahl
// projection for parallel fraction p.
func CompareAmdahl(curve []Point, p float64) []AmdahlPoint {
	out := make([]AmdahlPoint, len(curve))
	for i, pt := range curve {
		proj := runmath.Amdahl(p, float64(pt.Threads))
		out[i] = AmdahlPoint{
			Point:     pt,
			Projected: proj,
			Ratio:     pt.Speedup / proj,
			Warning:   runmath.CheckAmdahlBound(pt.Speedup, p, pt.Threads, BoundTolerance),
		}
	}
	return out
}

// A ScheduleTime is the mean total time of one schedule at one thread
// count, averaged over every row with that schedule and thread count.
type ScheduleTime struct {
	Threads  int
	Schedule string
	Total    float64
}

// BestSchedules returns, for each thread count, the schedule with the
// lowest mean total time, in increasing thread order. Ties go to the
// lexically smallest schedule.
func BestSchedules(rows []*Row) []ScheduleTime {
	if len(rows) == 0 {
		return nil
	}
	threads := make([]int, len(rows))
	schedules := make([]string, len(rows))
	totals := make([]float64, len(rows))
	for i, r := range rows {
		threads[i] = r.Threads()
		schedules[i] = r.Group.Key.Schedule
		totals[i] = r.Group.Value(runfmt.Total)
	}
	tab := new(table.Builder).Add("threads", threads).Add("schedule", schedules).Add("total", totals).Done()
	flat := table.Flatten(ggstat.Agg("threads", "schedule")(ggstat.AggMean("total")).F(tab))

	xs := flat.MustColumn("threads").([]int)
	ss := flat.MustColumn("schedule").([]string)
	ts := flat.MustColumn("mean total").([]float64)
	best := make(map[int]ScheduleTime)
	for i := range xs {
		if math.IsNaN(ts[i]) {
			continue
		}
		st := ScheduleTime{xs[i], ss[i], ts[i]}
		if cur, ok := best[st.Threads]; ok && (cur.Total < st.Total || cur.Total == st.Total && cur.Schedule < st.Schedule) {
			continue
		}
		best[st.Threads] = st
	}
	out := make([]ScheduleTime, 0, len(best))
	for _, st := range best {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Threads < out[j].Threads })
	return out
}
