// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"encoding/csv"
	"io"
)

// Columns selects the columns of an aggregated table.
type Columns struct {
	Keys     []Field
	Measures []Field
}

// ColumnsOf returns the key and measure fields present in every one of
// hs. With no headers it returns all fields.
func ColumnsOf(hs ...*Header) Columns {
	keep := func(fields []Field) []Field {
		var out []Field
	fieldLoop:
		for _, f := range fields {
			for _, h := range hs {
				if h == nil || !h.Has(f) {
					continue fieldLoop
				}
			}
			out = append(out, f)
		}
		return out
	}
	return Columns{Keys: keep(KeyFields), Measures: keep(Measures)}
}

// Fields returns the full column list: the keys, the repetition count,
// then the measures.
func (c Columns) Fields() []Field {
	out := make([]Field, 0, len(c.Keys)+1+len(c.Measures))
	out = append(out, c.Keys...)
	out = append(out, Count)
	return append(out, c.Measures...)
}

// Has reports whether f is one of c's key or measure fields.
func (c Columns) Has(f Field) bool {
	for _, g := range c.Keys {
		if g == f {
			return true
		}
	}
	for _, g := range c.Measures {
		if g == f {
			return true
		}
	}
	return false
}

// A Writer writes aggregated run records as CSV.
//
// The header line is written before the first record. Missing
// measures are written as empty cells.
type Writer struct {
	w      *csv.Writer
	fields []Field
	row    []string

	wroteHeader bool
}

// NewWriter returns a Writer that writes the columns cols to w.
func NewWriter(w io.Writer, cols Columns) *Writer {
	return &Writer{w: csv.NewWriter(w), fields: cols.Fields()}
}

// Write writes run as one row.
func (w *Writer) Write(run *Run) error {
	if !w.wroteHeader {
		w.wroteHeader = true
		w.row = w.row[:0]
		for _, f := range w.fields {
			w.row = append(w.row, f.String())
		}
		if err := w.w.Write(w.row); err != nil {
			return err
		}
	}
	w.row = w.row[:0]
	for _, f := range w.fields {
		w.row = append(w.row, run.Text(f))
	}
	return w.w.Write(w.row)
}

// Flush writes any buffered data to the underlying writer and returns
// any error encountered while writing.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
