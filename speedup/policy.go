// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package speedup

import (
	"math"
	"sort"

	"github.com/nwalign/nwperf/runfmt"
)

// A Policy decides which rows represent a configuration when
// summarizing speedup across schedules and input sizes.
//
// Best always picks, for each method, thread count and input file,
// the schedule with the highest speedup. The remaining fields are
// explicit exceptions to using every row.
type Policy struct {
	// MinLength and MaxLength bound the sequence A lengths of the
	// rows considered representative. Very small inputs are
	// dominated by threading overhead and very large ones by
	// memory effects.
	MinLength, MaxLength int

	// ReferenceThreads is the thread count at which observed
	// speedup is compared with the Amdahl projection.
	ReferenceThreads int

	// IdealCap is the largest thread count drawn on the ideal
	// linear speedup reference.
	IdealCap int
}

// DefaultPolicy is the policy used by the report and chart commands.
var DefaultPolicy = Policy{
	MinLength:        1024,
	MaxLength:        16384,
	ReferenceThreads: 8,
	IdealCap:         8,
}

type bestKey struct {
	method  string
	threads int
	file    string
}

// better reports whether a should be selected over b.
func better(a, b *Row) bool {
	sa, sb := a.Speedup, b.Speedup
	switch {
	case math.IsNaN(sb) && !math.IsNaN(sa):
		return true
	case math.IsNaN(sa):
		return false
	case sa != sb:
		return sa > sb
	}
	return a.Group.Key.Schedule < b.Group.Key.Schedule
}

// Best returns, for each method, thread count and input file, the row
// with the highest speedup. Ties go to the lexically smallest
// schedule. The result is in first-observation order.
func (p Policy) Best(rows []*Row) []*Row {
	best := make(map[bestKey]int)
	var out []*Row
	for _, r := range rows {
		k := bestKey{r.Group.Key.Method, r.Threads(), runfmt.NormalizePath(r.Group.Key.File)}
		i, ok := best[k]
		if !ok {
			best[k] = len(out)
			out = append(out, r)
			continue
		}
		if better(r, out[i]) {
			out[i] = r
		}
	}
	return out
}

// Representative returns the rows whose sequence A length is within
// [MinLength, MaxLength]. If none are, it returns all rows and false.
func (p Policy) Representative(rows []*Row) ([]*Row, bool) {
	var out []*Row
	for _, r := range rows {
		if l := r.Group.Key.LengthA; l >= p.MinLength && l <= p.MaxLength {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return rows, false
	}
	return out, true
}

// IdealMax returns the largest thread count of the ideal speedup
// reference for data measured up to maxThreads.
func (p Policy) IdealMax(maxThreads int) int {
	if p.IdealCap > 0 && maxThreads > p.IdealCap {
		return p.IdealCap
	}
	return maxThreads
}

// A ScheduleCount is the number of times a schedule was selected for
// a method and thread count.
type ScheduleCount struct {
	Method   string
	Threads  int
	Schedule string
	N        int
}

// ScheduleCounts tallies the schedules of rows by method and thread
// count, ordered by method, threads, decreasing count and schedule.
func ScheduleCounts(rows []*Row) []ScheduleCount {
	idx := make(map[ScheduleCount]int)
	var out []ScheduleCount
	for _, r := range rows {
		k := ScheduleCount{Method: r.Group.Key.Method, Threads: r.Threads(), Schedule: r.Group.Key.Schedule}
		if i, ok := idx[k]; ok {
			out[i].N++
			continue
		}
		idx[k] = len(out)
		k.N = 1
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Method != b.Method:
			return a.Method < b.Method
		case a.Threads != b.Threads:
			return a.Threads < b.Threads
		case a.N != b.N:
			return a.N > b.N
		}
		return a.Schedule < b.Schedule
	})
	return out
}

// DominantSchedule returns the most frequent schedule among rows.
// Ties go to the lexically smallest schedule. It returns "" if rows is
// empty.
func DominantSchedule(rows []*Row) string {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Group.Key.Schedule]++
	}
	var best string
	bestN := 0
	for s, n := range counts {
		if n > bestN || (n == bestN && s < best) {
			best, bestN = s, n
		}
	}
	return best
}

// Fastest returns up to k rows of file with the lowest mean total
// time, fastest first. Ties are broken by method, threads and
// schedule.
func Fastest(rows []*Row, file string, k int) []*Row {
	file = runfmt.NormalizePath(file)
	var out []*Row
	for _, r := range rows {
		if runfmt.NormalizePath(r.Group.Key.File) == file {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Group, out[j].Group
		ta, tb := a.Value(runfmt.Total), b.Value(runfmt.Total)
		switch {
		case ta != tb && !(math.IsNaN(ta) && math.IsNaN(tb)):
			if math.IsNaN(ta) {
				return false
			}
			if math.IsNaN(tb) {
				return true
			}
			return ta < tb
		case a.Key.Method != b.Key.Method:
			return a.Key.Method < b.Key.Method
		case a.Key.Threads != b.Key.Threads:
			return a.Key.Threads < b.Key.Threads
		}
		return a.Key.Schedule < b.Key.Schedule
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
