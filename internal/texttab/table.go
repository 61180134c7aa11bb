// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out plain text tables for the report writers.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Its building methods return the Table so callers can chain them.
type Table struct {
	rows [][]cell
	cols int
}

type cell struct {
	value string
	right bool
}

// A CellOption adjusts a single cell.
type CellOption func(c *cell)

var (
	Left  CellOption = func(c *cell) { c.right = false }
	Right CellOption = func(c *cell) { c.right = true }
)

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	r := &t.rows[len(t.rows)-1]
	*r = append(*r, c)
	if len(*r) > t.cols {
		t.cols = len(*r)
	}
	return t
}

// Cells adds one left-aligned cell per value.
func (t *Table) Cells(values ...string) *Table {
	for _, v := range values {
		t.Cell(v)
	}
	return t
}

// Len returns the number of rows in t.
func (t *Table) Len() int {
	return len(t.rows)
}

// Format lays out table t and writes it to w. Columns are separated
// by two spaces and lines carry no trailing space.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, row := range t.rows {
		for i, c := range row {
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}
	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for i, c := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			pad := ws[i] - utf8.RuneCountInString(c.value)
			if c.right {
				line.WriteString(strings.Repeat(" ", pad))
				line.WriteString(c.value)
			} else {
				line.WriteString(c.value)
				line.WriteString(strings.Repeat(" ", pad))
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
