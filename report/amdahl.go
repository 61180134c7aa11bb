// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"

	"github.com/nwalign/nwperf/speedup"
)

var verdictText = map[speedup.Verdict]string{
	speedup.Excellent: "close to the Amdahl bound",
	speedup.Good:      "reasonable, with room to improve",
	speedup.Poor:      "far below the Amdahl bound; check threading overhead and cache contention",
	speedup.Unknown:   "no parallel results to judge",
}

// WriteAmdahl writes a step by step derivation of a: the parallel
// fraction, the observed speedup per thread count, the Amdahl
// projection and the resulting bound.
func WriteAmdahl(w io.Writer, a *speedup.Analysis) error {
	p := &printer{w: w}
	p.title("SPEEDUP AND AMDAHL'S LAW")

	p.printf("\n")
	p.section("STEP 1: PARALLEL FRACTION (p)")
	share := func(x float64) string { return num(x/a.Total*100, 1) + "%" }
	p.printf("Mean sequential phase times:\n")
	p.printf("  init:       %s ms (%s)\n", ms(a.Init), share(a.Init))
	p.printf("  fill:       %s ms (%s)\n", ms(a.Fill), share(a.Fill))
	p.printf("  traceback:  %s ms (%s)\n", ms(a.Traceback), share(a.Traceback))
	p.printf("  total:      %s ms\n", ms(a.Total))
	p.printf("\nOnly the fill phase runs in parallel. p is the mean fill/total\n")
	p.printf("fraction over the sequential runs:\n")
	p.printf("  p = %s = %s\n", num(a.P, 4), num(a.P*100, 2)+"%")
	p.printf("  %s of the time is parallelizable and %s is not\n", num(a.P*100, 1)+"%", num(100-a.P*100, 1)+"%")

	p.printf("\n")
	p.section("STEP 2: OBSERVED SPEEDUP")
	for _, s := range a.Steps {
		p.printf("%d threads (best schedule %s):\n", s.Threads, s.Schedule)
		p.printf("  speedup     = %s / %s = %s\n", ms(a.Total), ms(s.Parallel), times(s.Speedup))
		p.printf("  efficiency  = %s / %d = %s\n", num(s.Speedup, 3), s.Threads, num(s.Efficiency, 1)+"%")
	}

	p.printf("\n")
	p.section("STEP 3: AMDAHL PROJECTION")
	p.printf("  speedup = 1 / ((1 - p) + p / n), p = %s\n", num(a.P, 4))
	for _, s := range a.Steps {
		p.printf("%d threads:\n", s.Threads)
		p.printf("  projected:  %s\n", times(s.Projected))
		p.printf("  observed:   %s\n", times(s.Speedup))
		p.printf("  difference: %s\n", signed(s.Speedup-s.Projected)+"x")
		p.printf("  achieved:   %s of projected\n", num(s.Ratio()*100, 1)+"%")
	}

	p.printf("\n")
	p.section("STEP 4: UPPER BOUND")
	p.printf("  limit = 1 / (1 - p) = 1 / %s = %s\n", num(1-a.P, 4), times(a.Limit))
	p.printf("  no thread count can exceed %s because %s of the time is serial\n", num(a.Limit, 2)+"x", num(100-a.P*100, 1)+"%")

	p.printf("\n")
	p.title("CONCLUSION")
	p.printf("  parallel fraction:    %s\n", num(a.P*100, 2)+"%")
	p.printf("  maximum speedup:      %s\n", num(a.Limit, 2)+"x")
	if last, ok := a.Last(); ok {
		p.printf("  speedup (%d threads): %s\n", last.Threads, num(last.Speedup, 2)+"x")
		p.printf("  achieved:             %s of projected\n", num(last.Ratio()*100, 1)+"%")
	}
	v := a.Verdict()
	p.printf("  verdict:              %v, %s\n", v, verdictText[v])

	p.warnings(a.Warnings)
	return p.err
}

func signed(x float64) string {
	s := num(x, 3)
	if x >= 0 {
		s = "+" + s
	}
	return s
}
