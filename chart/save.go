// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"context"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/nwalign/nwperf/internal/fs"
)

// FileName returns the name Save uses for chart name in style s.
func FileName(name string, s Style) string {
	if s.Name != "" {
		name += "_" + s.Name
	}
	return name + "." + s.Format
}

// Save renders p in style s and writes it to out. It returns the
// name of the file written.
func Save(ctx context.Context, out fs.FS, name string, p *plot.Plot, s Style) (file string, err error) {
	var wt io.WriterTo
	if s.Format == "png" {
		can := vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(s.Width, s.Height),
			vgimg.UseDPI(s.DPI), vgimg.UseBackgroundColor(color.White))}
		p.Draw(draw.New(can))
		wt = can
	} else {
		wt, err = p.WriterTo(s.Width, s.Height, s.Format)
		if err != nil {
			return "", err
		}
	}

	file = FileName(name, s)
	w, err := out.NewWriter(ctx, file, map[string]string{"format": s.Format, "style": s.Name})
	if err != nil {
		return "", err
	}
	if _, err := wt.WriteTo(w); err != nil {
		w.CloseWithError(err)
		return "", err
	}
	return file, w.Close()
}
