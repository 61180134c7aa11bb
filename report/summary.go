// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"
	"math"
	"strconv"

	"github.com/nwalign/nwperf/internal/texttab"
	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/runmath"
)

// A Phase is one of the three timed phases of the algorithm.
type Phase struct {
	Name  string
	Field runfmt.Field
}

// Phases lists the timed phases in execution order.
var Phases = []Phase{
	{"init", runfmt.Init},
	{"fill", runfmt.Fill},
	{"traceback", runfmt.Traceback},
}

func (ph Phase) percent(p runmath.Percentages) float64 {
	switch ph.Field {
	case runfmt.Init:
		return p.Init
	case runfmt.Fill:
		return p.Fill
	}
	return p.Traceback
}

// PhaseStats summarizes the percentage of total time spent in each
// phase across groups, indexed like Phases.
func PhaseStats(groups []*runagg.Group) []runmath.Summary {
	pcts := make([][]float64, len(Phases))
	for _, g := range groups {
		p := runmath.GroupPercentages(g)
		for i, ph := range Phases {
			pcts[i] = append(pcts[i], ph.percent(p))
		}
	}
	out := make([]runmath.Summary, len(Phases))
	for i := range Phases {
		out[i] = runmath.Summarize(pcts[i])
	}
	return out
}

// Bottleneck returns the group with the highest fill percentage. Ties
// go to the earliest group. It returns nil if no group has a fill
// percentage.
func Bottleneck(groups []*runagg.Group) *runagg.Group {
	var best *runagg.Group
	bestPct := math.Inf(-1)
	for _, g := range groups {
		if p := runmath.GroupPercentages(g).Fill; p > bestPct {
			best, bestPct = g, p
		}
	}
	return best
}

// WriteSummary writes the phase breakdown of groups, normally the
// sequential groups, followed by warnings.
func WriteSummary(w io.Writer, groups []*runagg.Group, warnings []error) error {
	groups = append([]*runagg.Group(nil), groups...)
	runagg.SortByTypeAndLength(groups)

	p := &printer{w: w}
	p.title("BENCHMARK ANALYSIS SUMMARY")
	p.printf("\nFiles analyzed: %d\n\n", len(groups))

	p.section("PHASE STATISTICS (% of total time)")
	var tab texttab.Table
	tab.Row().Cell("phase").Cell("mean", texttab.Right).Cell("min", texttab.Right).Cell("max", texttab.Right).Cell("median", texttab.Right)
	for i, s := range PhaseStats(groups) {
		tab.Row().Cell(Phases[i].Name).
			Cell(pct(s.Mean), texttab.Right).
			Cell(pct(s.Min), texttab.Right).
			Cell(pct(s.Max), texttab.Right).
			Cell(pct(s.Median), texttab.Right)
	}
	p.table(&tab)

	if g := Bottleneck(groups); g != nil {
		p.printf("\n")
		p.section("HIGHEST FILL SHARE (bottleneck)")
		p.printf("  file:        %s\n", g.Info().Label)
		p.printf("  fill:        %s\n", pct(runmath.GroupPercentages(g).Fill))
		p.printf("  fill time:   %s ms\n", ms(g.Value(runfmt.Fill)))
		p.printf("  total time:  %s ms\n", ms(g.Value(runfmt.Total)))
	}

	p.printf("\n")
	p.section("PER-FILE DETAIL")
	tab = texttab.Table{}
	tab.Row().Cells("file", "length")
	for _, ph := range Phases {
		tab.Cell(ph.Name+" %", texttab.Right).Cell(ph.Name+" ms", texttab.Right)
	}
	tab.Cell("total ms", texttab.Right)
	for _, g := range groups {
		pc := runmath.GroupPercentages(g)
		tab.Row().Cell(g.Info().Label).Cell(strconv.Itoa(g.Key.LengthA), texttab.Right)
		for _, ph := range Phases {
			tab.Cell(pct(ph.percent(pc)), texttab.Right).Cell(ms(g.Value(ph.Field)), texttab.Right)
		}
		tab.Cell(ms(g.Value(runfmt.Total)), texttab.Right)
	}
	p.table(&tab)

	p.warnings(warnings)
	return p.err
}
