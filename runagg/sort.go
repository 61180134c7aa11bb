// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runagg

import (
	"sort"
)

var typeOrder = map[string]int{"dna": 0, "protein": 1}

// SortByTypeAndLength sorts groups with DNA inputs first, then
// protein inputs, each by increasing nominal length. The sort is
// stable.
func SortByTypeAndLength(groups []*Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Info(), groups[j].Info()
		if ta, tb := typeOrder[a.Type], typeOrder[b.Type]; ta != tb {
			return ta < tb
		}
		return a.Length < b.Length
	})
}

// SortByLength stably sorts groups by the nominal length in their
// file names.
func SortByLength(groups []*Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Info().Length < groups[j].Info().Length
	})
}

// SortByKey sorts groups by file, method, thread count and schedule.
func SortByKey(groups []*Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		switch {
		case a.File != b.File:
			return a.File < b.File
		case a.Method != b.Method:
			return a.Method < b.Method
		case a.Threads != b.Threads:
			return a.Threads < b.Threads
		}
		return a.Schedule < b.Schedule
	})
}

// A Summary describes the shape of an aggregated table.
type Summary struct {
	// Files is the number of distinct input files.
	Files int

	// Methods are the distinct methods, in first-observation order.
	Methods []string

	// Configs is the number of distinct (method, threads, schedule)
	// combinations.
	Configs int

	// Repetitions maps a repetition count to the number of groups
	// with that many runs.
	Repetitions map[int]int
}

// Summarize returns the Summary of groups.
func Summarize(groups []*Group) Summary {
	type config struct {
		method   string
		threads  int
		schedule string
	}
	files := make(map[string]bool)
	methods := make(map[string]bool)
	configs := make(map[config]bool)
	s := Summary{Repetitions: make(map[int]int)}
	for _, g := range groups {
		files[g.Key.File] = true
		if !methods[g.Key.Method] {
			methods[g.Key.Method] = true
			s.Methods = append(s.Methods, g.Key.Method)
		}
		configs[config{g.Key.Method, g.Key.Threads, g.Key.Schedule}] = true
		s.Repetitions[g.Count]++
	}
	s.Files, s.Configs = len(files), len(configs)
	return s
}
