// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/runmath"
	"github.com/nwalign/nwperf/speedup"
)

func curveXYs(pts []speedup.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: float64(pt.Threads), Y: pt.Speedup}
	}
	return xys
}

// SpeedupCurve draws the mean speedup of the best schedule at each
// thread count, together with the Amdahl projection for a's parallel
// fraction, the ideal linear speedup and the break-even line. a may
// be nil.
//
// The observed curve uses the rows pol considers representative. If
// that is a strict subset, the curve over all input sizes is drawn
// dashed for comparison.
func SpeedupCurve(t *speedup.Table, a *speedup.Analysis, pol speedup.Policy, s Style) (*plot.Plot, error) {
	best := pol.Best(t.Rows)
	rep, subset := pol.Representative(best)
	observed := speedup.Curve(rep)
	if len(observed) == 0 {
		return nil, ErrNoData
	}
	maxThreads := observed[len(observed)-1].Threads

	p := s.newPlot("Speedup vs threads", "threads", "speedup")
	add := func(name string, xys plotter.XYs, c color.Color, dashed, points bool) error {
		if points {
			l, sc, err := plotter.NewLinePoints(xys)
			if err != nil {
				return err
			}
			l.LineStyle = s.line(c, dashed)
			sc.GlyphStyle.Color = c
			sc.GlyphStyle.Radius = s.GlyphRadius
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(l, sc)
			p.Legend.Add(name, l, sc)
			return nil
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		l.LineStyle = s.line(c, dashed)
		p.Add(l)
		p.Legend.Add(name, l)
		return nil
	}

	label := "observed"
	if subset {
		label = fmt.Sprintf("observed (%d-%d)", pol.MinLength, pol.MaxLength)
	}
	if err := add(label, curveXYs(observed), fillColor, false, true); err != nil {
		return nil, err
	}
	if subset {
		all := speedup.Curve(best)
		if n := all[len(all)-1].Threads; n > maxThreads {
			maxThreads = n
		}
		if err := add("observed (all sizes)", curveXYs(all), initColor, true, true); err != nil {
			return nil, err
		}
	}

	if a != nil && a.P >= 0 && a.P <= 1 {
		var xys plotter.XYs
		for n := 1; n <= maxThreads; n++ {
			xys = append(xys, plotter.XY{X: float64(n), Y: runmath.Amdahl(a.P, float64(n))})
		}
		if err := add(fmt.Sprintf("Amdahl (p=%.2f)", a.P), xys, amdahlColor, true, false); err != nil {
			return nil, err
		}
	}

	ideal := float64(pol.IdealMax(maxThreads))
	if err := add("ideal", plotter.XYs{{X: 1, Y: 1}, {X: ideal, Y: ideal}}, referenceColor, true, false); err != nil {
		return nil, err
	}
	lo, hi := 0.5, float64(maxThreads)+0.5
	even, err := plotter.NewLine(plotter.XYs{{X: lo, Y: 1}, {X: hi, Y: 1}})
	if err != nil {
		return nil, err
	}
	even.LineStyle = s.line(referenceColor, false)
	even.LineStyle.Width = s.LineWidth / 2
	p.Add(even)

	p.X.Min, p.X.Max = lo, hi
	p.Y.Min = 0
	return p, nil
}

// A series is one line of TimeVsSize.
type series struct {
	name   string
	dashed bool
	mean   bool
}

// TimeVsSize draws total time against sequence length for DNA inputs
// on log-log axes: the sequential mean, the fastest configuration of
// each parallel method, and each method and schedule at its fastest
// thread count.
func TimeVsSize(groups []*runagg.Group, s Style) (*plot.Plot, error) {
	var (
		names   []string
		lengths []float64
		seconds []float64
		order   []series
	)
	seen := make(map[string]bool)
	add := func(sr series, length, sec float64) {
		if !seen[sr.name] {
			seen[sr.name] = true
			order = append(order, sr)
		}
		names = append(names, sr.name)
		lengths = append(lengths, length)
		seconds = append(seconds, sec)
	}
	for _, g := range sorted(groups) {
		total := g.Value(runfmt.Total)
		l := length(g)
		if g.Info().Type != "dna" || !(total > 0) || !(l > 0) || math.IsInf(total, 0) {
			continue
		}
		sec := total / 1000
		if g.IsSequential() {
			add(series{name: g.Key.Method, mean: true}, l, sec)
			continue
		}
		add(series{name: g.Key.Method + " (best)"}, l, sec)
		if g.Key.Schedule != "" {
			add(series{name: g.Key.Method + " " + g.Key.Schedule, dashed: true}, l, sec)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoData
	}

	tab := new(table.Builder).Add("series", names).Add("length", lengths).Add("seconds", seconds).Done()
	agg := ggstat.Agg("series", "length")(ggstat.AggMean("seconds"), ggstat.AggMin("seconds")).F(tab)
	flat := table.Flatten(agg)
	col := func(name string) []float64 { return flat.MustColumn(name).([]float64) }
	xs, means, mins := col("length"), col("mean seconds"), col("min seconds")
	ns := flat.MustColumn("series").([]string)

	p := s.newPlot("Total time vs sequence length (DNA)", "sequence length", "time (s)")
	p.X.Scale, p.Y.Scale = plot.LogScale{}, plot.LogScale{}
	p.X.Tick.Marker, p.Y.Tick.Marker = plot.LogTicks{}, plot.LogTicks{}
	palette := colors(len(order))
	for i, sr := range order {
		var xys plotter.XYs
		for j, n := range ns {
			if n != sr.name {
				continue
			}
			y := mins[j]
			if sr.mean {
				y = means[j]
			}
			xys = append(xys, plotter.XY{X: xs[j], Y: y})
		}
		sort.Slice(xys, func(a, b int) bool { return xys[a].X < xys[b].X })
		l, sc, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		c := palette[i]
		if sr.mean {
			c = color.Black
		}
		l.LineStyle = s.line(c, sr.dashed)
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Radius = s.GlyphRadius
		p.Add(l, sc)
		p.Legend.Add(sr.name, l, sc)
	}
	widenLog(&p.X)
	widenLog(&p.Y)
	return p, nil
}
