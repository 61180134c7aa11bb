// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runmath

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A Summary describes a set of values, such as the fill percentage of
// every input file.
type Summary struct {
	N              int
	Mean, Min, Max float64
	Median, StdDev float64
}

// Summarize returns the Summary of the non-NaN values in xs. All
// statistics are NaN if there are none; StdDev is NaN with fewer than
// two values.
func Summarize(xs []float64) Summary {
	var vals []float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	nan := math.NaN()
	s := Summary{N: len(vals), Mean: nan, Min: nan, Max: nan, Median: nan, StdDev: nan}
	if len(vals) == 0 {
		return s
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	s.Mean = sum / float64(len(vals))
	s.Min, s.Max = stats.Bounds(vals)
	s.Median = stats.Sample{Xs: vals}.Quantile(0.5)
	if len(vals) > 1 {
		s.StdDev = stats.StdDev(vals)
	}
	return s
}
