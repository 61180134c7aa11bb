// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runmath"
)

// A pieChart draws values as wedges of a circle filling the data
// area. It implements plot.Plotter.
type pieChart struct {
	values []float64
	colors []color.Color
	text   draw.TextStyle
}

// segments per full turn used to approximate arcs.
const pieSegments = 180

func (pc *pieChart) Plot(c draw.Canvas, plt *plot.Plot) {
	total := 0.0
	for _, v := range pc.values {
		total += v
	}
	if !(total > 0) {
		return
	}
	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	r := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < r {
		r = h
	}
	r *= 0.45
	at := func(angle float64, rad vg.Length) vg.Point {
		return vg.Point{
			X: center.X + rad*vg.Length(math.Cos(angle)),
			Y: center.Y + rad*vg.Length(math.Sin(angle)),
		}
	}

	// Wedges run clockwise from twelve o'clock.
	start := math.Pi / 2
	for i, v := range pc.values {
		sweep := v / total * 2 * math.Pi
		n := int(math.Ceil(sweep / (2 * math.Pi) * pieSegments))
		if n < 1 {
			n = 1
		}
		pts := []vg.Point{center}
		for k := 0; k <= n; k++ {
			pts = append(pts, at(start-sweep*float64(k)/float64(n), r))
		}
		c.FillPolygon(pc.colors[i], pts)
		c.StrokeLines(draw.LineStyle{Color: color.White, Width: vg.Points(1)}, append(pts, center))

		if share := v / total; share >= 0.02 {
			c.FillText(pc.text, at(start-sweep/2, r*0.65), fmt.Sprintf("%.1f%%", share*100))
		}
		start -= sweep
	}
}

// DataRange gives the pie a unit square so axis ranges stay finite.
func (pc *pieChart) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, 1, 0, 1
}

// A swatch is a legend thumbnail filled with one color.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, pts)
}

// Pie draws the phase breakdown of one group as a pie chart.
func Pie(g *runagg.Group, s Style) (*plot.Plot, error) {
	pc := runmath.GroupPercentages(g)
	vals := []float64{pc.Init, pc.Fill, pc.Traceback}
	total := 0.0
	for i, v := range vals {
		if math.IsNaN(v) || v < 0 {
			vals[i] = 0
		}
		total += vals[i]
	}
	if !(total > 0) {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Phase breakdown: " + g.Info().Label
	p.Title.TextStyle.Font.Size = s.TitleSize
	p.Legend.TextStyle.Font.Size = s.LegendSize
	p.Legend.Top = true
	p.HideAxes()

	pie := &pieChart{values: vals, text: p.Legend.TextStyle}
	pie.text.Color = color.White
	pie.text.Font.Size = s.TickSize
	pie.text.XAlign = draw.XCenter
	pie.text.YAlign = draw.YCenter
	for _, ph := range phases {
		pie.colors = append(pie.colors, ph.color)
		p.Legend.Add(ph.name, swatch{ph.color})
	}
	p.Add(pie)
	return p, nil
}
