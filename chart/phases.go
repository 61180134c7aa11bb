// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
	"github.com/nwalign/nwperf/runmath"
)

type phase struct {
	name  string
	field runfmt.Field
	color color.Color
}

var phases = []phase{
	{"init", runfmt.Init, initColor},
	{"fill", runfmt.Fill, fillColor},
	{"traceback", runfmt.Traceback, tracebackColor},
}

func (ph phase) percent(p runmath.Percentages) float64 {
	switch ph.field {
	case runfmt.Init:
		return p.Init
	case runfmt.Fill:
		return p.Fill
	}
	return p.Traceback
}

// sorted returns a copy of groups in display order.
func sorted(groups []*runagg.Group) []*runagg.Group {
	groups = append([]*runagg.Group(nil), groups...)
	runagg.SortByTypeAndLength(groups)
	return groups
}

func labels(groups []*runagg.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Info().Label
	}
	return out
}

// length returns the nominal length of g's input, falling back to the
// recorded length of sequence A.
func length(g *runagg.Group) float64 {
	if l := g.Info().Length; l > 0 {
		return float64(l)
	}
	return float64(g.Key.LengthA)
}

func zeroNaN(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// barWidth fits n bars in the plot width.
func (s Style) barWidth(n int) vg.Length {
	w := s.Width * 0.6 / vg.Length(n+1)
	if w > vg.Points(40) {
		w = vg.Points(40)
	}
	return w
}

// PhasePercentages draws one stacked bar per group showing the share
// of total time spent in each phase.
func PhasePercentages(groups []*runagg.Group, s Style) (*plot.Plot, error) {
	if len(groups) == 0 {
		return nil, ErrNoData
	}
	groups = sorted(groups)
	p := s.newPlot("Time share per phase", "input", "% of total time")

	var below *plotter.BarChart
	for _, ph := range phases {
		vals := make(plotter.Values, len(groups))
		for i, g := range groups {
			vals[i] = zeroNaN(ph.percent(runmath.GroupPercentages(g)))
		}
		bars, err := plotter.NewBarChart(vals, s.barWidth(len(groups)))
		if err != nil {
			return nil, err
		}
		bars.Color = ph.color
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		below = bars
		p.Add(bars)
		p.Legend.Add(ph.name, bars)
	}
	p.NominalX(labels(groups)...)
	rotateX(p)
	p.Y.Min, p.Y.Max = 0, 105
	return p, nil
}

// PhaseTimes draws the mean time of each phase against input length
// on log-log axes.
func PhaseTimes(groups []*runagg.Group, s Style) (*plot.Plot, error) {
	groups = sorted(groups)
	p := s.newPlot("Phase time vs input length", "sequence length", "time (ms)")
	p.X.Scale, p.Y.Scale = plot.LogScale{}, plot.LogScale{}
	p.X.Tick.Marker, p.Y.Tick.Marker = plot.LogTicks{}, plot.LogTicks{}

	drawn := false
	for _, ph := range phases {
		var xys plotter.XYs
		for _, g := range groups {
			xys = append(xys, plotter.XY{X: length(g), Y: g.Value(ph.field)})
		}
		xys = positive(xys)
		if len(xys) == 0 {
			continue
		}
		l, sc, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		l.LineStyle = s.line(ph.color, false)
		sc.GlyphStyle.Color = ph.color
		sc.GlyphStyle.Radius = s.GlyphRadius
		p.Add(l, sc)
		p.Legend.Add(ph.name, l, sc)
		drawn = true
	}
	if !drawn {
		return nil, ErrNoData
	}
	widenLog(&p.X)
	widenLog(&p.Y)
	return p, nil
}

// FillShare draws the fill phase share of each group as a bar, with
// a dashed line at the mean.
func FillShare(groups []*runagg.Group, s Style) (*plot.Plot, error) {
	if len(groups) == 0 {
		return nil, ErrNoData
	}
	groups = sorted(groups)
	p := s.newPlot("Fill phase share", "input", "% of total time")

	vals := make(plotter.Values, len(groups))
	raw := make([]float64, len(groups))
	for i, g := range groups {
		raw[i] = runmath.GroupPercentages(g).Fill
		vals[i] = zeroNaN(raw[i])
	}
	bars, err := plotter.NewBarChart(vals, s.barWidth(len(groups)))
	if err != nil {
		return nil, err
	}
	bars.Color = fillColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	if mean := runmath.Summarize(raw).Mean; !math.IsNaN(mean) {
		l, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: mean}, {X: float64(len(groups)) - 0.5, Y: mean}})
		if err != nil {
			return nil, err
		}
		l.LineStyle = s.line(amdahlColor, true)
		p.Add(l)
		p.Legend.Add("mean", l)
	}
	p.NominalX(labels(groups)...)
	rotateX(p)
	p.Y.Min, p.Y.Max = 0, 100
	return p, nil
}

// TotalVsLength draws total time against input length as a scatter
// on log-log axes.
func TotalVsLength(groups []*runagg.Group, s Style) (*plot.Plot, error) {
	var xys plotter.XYs
	for _, g := range groups {
		xys = append(xys, plotter.XY{X: length(g), Y: g.Value(runfmt.Total)})
	}
	xys = positive(xys)
	if len(xys) == 0 {
		return nil, ErrNoData
	}
	p := s.newPlot("Total time vs input length", "sequence length", "total time (ms)")
	p.X.Scale, p.Y.Scale = plot.LogScale{}, plot.LogScale{}
	p.X.Tick.Marker, p.Y.Tick.Marker = plot.LogTicks{}, plot.LogTicks{}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = fillColor
	sc.GlyphStyle.Radius = s.GlyphRadius
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
	widenLog(&p.X)
	widenLog(&p.Y)
	return p, nil
}
