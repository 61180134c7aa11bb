// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders aggregated benchmark results with gonum/plot.
//
// Every renderer takes an explicit Style and returns a *plot.Plot,
// which Save writes to an fs.FS. No plotting state is shared between
// calls.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned by a renderer with nothing to draw.
var ErrNoData = errors.New("no data to plot")

// A Style holds the page size, font sizes and output format of a
// chart.
type Style struct {
	// Name is used as a file name suffix.
	Name string

	Width, Height vg.Length

	// Format is an image format understood by gonum/plot, such as
	// "png", "svg" or "pdf".
	Format string

	// DPI is the resolution of raster formats.
	DPI int

	TitleSize, LabelSize, TickSize, LegendSize vg.Length

	LineWidth   vg.Length
	GlyphRadius vg.Length
}

var (
	// IEEE is a single-column figure for IEEE papers.
	IEEE = Style{
		Name:        "ieee",
		Width:       3.5 * vg.Inch,
		Height:      5.25 * vg.Inch,
		Format:      "png",
		DPI:         300,
		TitleSize:   vg.Points(10),
		LabelSize:   vg.Points(9),
		TickSize:    vg.Points(8),
		LegendSize:  vg.Points(7),
		LineWidth:   vg.Points(1.5),
		GlyphRadius: vg.Points(2.5),
	}

	// PPT is a widescreen slide.
	PPT = Style{
		Name:        "ppt",
		Width:       14 * vg.Inch,
		Height:      8 * vg.Inch,
		Format:      "png",
		DPI:         300,
		TitleSize:   vg.Points(20),
		LabelSize:   vg.Points(16),
		TickSize:    vg.Points(14),
		LegendSize:  vg.Points(12),
		LineWidth:   vg.Points(2),
		GlyphRadius: vg.Points(4),
	}
)

// Styles returns the styles named by format: "ieee", "ppt" or "both".
func Styles(format string) ([]Style, error) {
	switch format {
	case "ieee":
		return []Style{IEEE}, nil
	case "ppt":
		return []Style{PPT}, nil
	case "both":
		return []Style{IEEE, PPT}, nil
	}
	return nil, fmt.Errorf("unknown chart format %q, want ieee, ppt or both", format)
}

// newPlot returns an empty plot with s's fonts and a background grid.
func (s Style) newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = s.TitleSize
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Label.TextStyle.Font.Size = s.LabelSize
	p.Y.Label.TextStyle.Font.Size = s.LabelSize
	p.X.Tick.Label.Font.Size = s.TickSize
	p.Y.Tick.Label.Font.Size = s.TickSize
	p.Legend.TextStyle.Font.Size = s.LegendSize
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{0xdd}
	grid.Horizontal.Color = color.Gray{0xdd}
	p.Add(grid)
	return p
}

// rotateX tilts the X tick labels so long file names don't collide.
func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = -math.Pi / 6
	p.X.Tick.Label.YAlign = draw.YTop
	p.X.Tick.Label.XAlign = draw.XLeft
}

// Phase colors, fixed so every chart shows a phase the same way.
var (
	initColor      = color.RGBA{0x26, 0x46, 0x53, 0xff}
	fillColor      = color.RGBA{0x2a, 0x9d, 0x8f, 0xff}
	tracebackColor = color.RGBA{0xe7, 0x6f, 0x51, 0xff}
	amdahlColor    = color.RGBA{0xe7, 0x4c, 0x3c, 0xff}
	referenceColor = color.Gray{0x80}
)

// colors returns n distinct colors.
func colors(n int) []color.Color {
	out := make([]color.Color, n)
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Dark2", 8)
	for i := range out {
		if err != nil {
			out[i] = plotutil.Color(i)
			continue
		}
		cs := pal.Colors()
		out[i] = cs[i%len(cs)]
	}
	return out
}

func (s Style) line(c color.Color, dashed bool) draw.LineStyle {
	ls := draw.LineStyle{Color: c, Width: s.LineWidth}
	if dashed {
		ls.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	}
	return ls
}

// widenLog gives a log axis holding a single value a non-empty,
// positive range.
func widenLog(ax *plot.Axis) {
	if ax.Min == ax.Max {
		ax.Min /= 2
		ax.Max *= 2
	}
}

// positive returns the points of xys with both coordinates positive
// and finite, as needed on log axes.
func positive(xys plotter.XYs) plotter.XYs {
	var out plotter.XYs
	for _, pt := range xys {
		if pt.X > 0 && pt.Y > 0 && !math.IsInf(pt.X, 0) && !math.IsInf(pt.Y, 0) {
			out = append(out, pt)
		}
	}
	return out
}
