// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/nwalign/nwperf/internal/texttab"
	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/speedup"
)

// TopN is the number of configurations listed per file by
// WriteComparison.
const TopN = 5

func config(k runagg.Key) string {
	if k.Schedule == "" {
		return fmt.Sprintf("%s/%d", k.Method, k.Threads)
	}
	return fmt.Sprintf("%s/%d/%s", k.Method, k.Threads, k.Schedule)
}

// WriteComparison writes the sequential baselines of t, the fastest
// parallel configuration of each file, the TopN configurations per
// file and a per-phase breakdown of the fastest configuration.
func WriteComparison(w io.Writer, t *speedup.Table) error {
	p := &printer{w: w}
	p.title("SEQUENTIAL VS PARALLEL")

	p.printf("\n")
	p.section("1. SEQUENTIAL BASELINES")
	var tab texttab.Table
	tab.Row().Cells("file", "length").Cell("total ms", texttab.Right).Cell("± ms", texttab.Right).Cell("n", texttab.Right)
	for _, g := range t.Baselines.Groups() {
		tab.Row().Cell(runfmt.NormalizePath(g.Key.File)).Cell(fmt.Sprint(g.Key.LengthA), texttab.Right).
			Cell(ms(g.Value(runfmt.Total)), texttab.Right).
			Cell(ms(g.StdDev[runfmt.Total.MeasureIndex()]), texttab.Right).
			Cell(fmt.Sprint(g.Count), texttab.Right)
	}
	p.table(&tab)

	files := t.Files()
	p.printf("\n")
	p.section("2. FASTEST PARALLEL CONFIGURATION PER FILE")
	for _, file := range files {
		best := speedup.Fastest(t.Rows, file, 1)[0]
		g, b := best.Group, best.Baseline
		seq, par := b.Value(runfmt.Total), g.Value(runfmt.Total)
		p.printf("\n  %s:\n", file)
		p.printf("    baseline:    %s (length %d, matched by %v)\n", runfmt.NormalizePath(b.Key.File), b.Key.LengthA, best.Match)
		p.printf("    sequential:  %s ms\n", ms(seq))
		p.printf("    parallel:    %s ± %s ms (%s)\n", ms(par), ms(g.StdDev[runfmt.Total.MeasureIndex()]), config(g.Key))
		p.printf("    speedup:     %s\n", times(best.Speedup))
		p.printf("    efficiency:  %s\n", num(best.Efficiency, 1)+"%")
		switch {
		case par > seq:
			p.printf("    parallel is %sx SLOWER\n", num(par/seq, 2))
		case par <= seq:
			p.printf("    parallel is %sx faster\n", num(seq/par, 2))
		}
	}
	for _, g := range t.Unmatched {
		p.printf("\n  %s: no sequential baseline (%s)\n", runfmt.NormalizePath(g.Key.File), config(g.Key))
	}

	p.printf("\n")
	p.section(fmt.Sprintf("3. TOP %d CONFIGURATIONS PER FILE", TopN))
	for _, file := range files {
		p.printf("\n  %s:\n", file)
		for i, r := range speedup.Fastest(t.Rows, file, TopN) {
			p.printf("    %d. %s: %s ms\n", i+1, config(r.Group.Key), ms(r.Group.Value(runfmt.Total)))
		}
	}

	p.printf("\n")
	p.section("4. PHASE BREAKDOWN OF THE FASTEST CONFIGURATION")
	for _, file := range files {
		best := speedup.Fastest(t.Rows, file, 1)[0]
		if best.Match != speedup.ByFile {
			// Phase times of a different input are not comparable.
			continue
		}
		g, b := best.Group, best.Baseline
		p.printf("\n  %s (%s):\n", file, config(g.Key))
		p.printf("    init:             %s ms\n", ms(g.Value(runfmt.Init)))
		p.printf("    fill:             %s ms\n", ms(g.Value(runfmt.Fill)))
		p.printf("    traceback:        %s ms\n", ms(g.Value(runfmt.Traceback)))
		p.printf("    sequential fill:  %s ms\n", ms(b.Value(runfmt.Fill)))
		p.printf("    fill speedup:     %s\n", times(b.Value(runfmt.Fill)/g.Value(runfmt.Fill)))
	}

	p.warnings(t.Warnings)
	return p.err
}
