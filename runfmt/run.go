// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runfmt reads and writes the CSV run records produced by the
// Needleman-Wunsch benchmark harness.
//
// Each row of a run file is one measured repetition of one
// configuration: an input sequence file, a method (secuencial or a
// parallel strategy), a thread count, an OpenMP schedule, the sequence
// lengths and scoring parameters, and the elapsed time of each phase
// of the alignment. Column names are part of the harness's wire format
// and are matched exactly.
//
// The same format, with an extra num_repeticiones column and the
// repetition index dropped, is used for aggregated tables, so a Reader
// can read its own Writer's output.
package runfmt

import (
	"fmt"
	"math"
)

// SequentialMethod is the method label of the sequential baseline.
// Every other method label names a parallel strategy.
const SequentialMethod = "secuencial"

// A Field identifies one known column of a run file.
type Field int

const (
	File Field = iota
	Method
	Threads
	Schedule
	LengthA
	LengthB
	Match
	Mismatch
	Gap
	Repetition
	Count
	Init
	Fill
	Traceback
	Total
	Score

	numFields
)

var fieldNames = [numFields]string{
	File:       "archivo_fasta",
	Method:     "metodo",
	Threads:    "threads",
	Schedule:   "schedule",
	LengthA:    "longitud_A",
	LengthB:    "longitud_B",
	Match:      "match",
	Mismatch:   "mismatch",
	Gap:        "gap",
	Repetition: "repeticion",
	Count:      "num_repeticiones",
	Init:       "tiempo_init_ms",
	Fill:       "tiempo_llenado_ms",
	Traceback:  "tiempo_traceback_ms",
	Total:      "tiempo_total_ms",
	Score:      "puntuacion",
}

// KeyFields are the fields that identify a configuration, in column
// order.
var KeyFields = []Field{File, Method, Threads, Schedule, LengthA, LengthB, Match, Mismatch, Gap}

// Measures are the averaged fields, in column order.
var Measures = []Field{Init, Fill, Traceback, Total, Score}

// NumMeasures is the number of measure fields.
const NumMeasures = 5

// String returns the CSV column name of f.
func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// IsKey reports whether f is part of the configuration key.
func (f Field) IsKey() bool { return f <= Gap }

// IsMeasure reports whether f is a measured value.
func (f Field) IsMeasure() bool { return f >= Init && f < numFields }

// isText reports whether values of f are kept as strings.
func (f Field) isText() bool {
	return f == File || f == Method || f == Schedule
}

// MeasureIndex returns the index of measure f in Run.Values.
// It panics if f is not a measure.
func (f Field) MeasureIndex() int {
	if !f.IsMeasure() {
		panic(fmt.Sprintf("%s is not a measure", f))
	}
	return int(f - Init)
}

// FieldByName returns the field whose column name is name.
func FieldByName(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return Field(f), true
		}
	}
	return 0, false
}

// A Run is one row of a run file.
//
// Numeric configuration fields hold integers; the harness never
// produces fractional thread counts, lengths or scores. A measure
// whose cell is empty or not a number is NaN.
type Run struct {
	File     string
	Method   string
	Threads  int
	Schedule string
	LengthA  int
	LengthB  int
	Match    int
	Mismatch int
	Gap      int

	// Repetition is the repetition index, or -1 if the row does not
	// carry one (as in aggregated tables).
	Repetition int

	// Count is the num_repeticiones column of an aggregated table,
	// or 0 for a raw run.
	Count int

	// Values holds the measures, indexed by Field.MeasureIndex.
	Values [NumMeasures]float64

	fileName string
	line     int
}

// Value returns the value of measure f.
func (r *Run) Value(f Field) float64 {
	return r.Values[f.MeasureIndex()]
}

// SetValue sets measure f.
func (r *Run) SetValue(f Field, v float64) {
	r.Values[f.MeasureIndex()] = v
}

// IsSequential reports whether r was measured with the sequential
// method.
func (r *Run) IsSequential() bool {
	return r.Method == SequentialMethod
}

// Pos returns the file name and line of r in its input.
func (r *Run) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// SetPos sets the position reported by Pos.
func (r *Run) SetPos(fileName string, line int) {
	r.fileName, r.line = fileName, line
}

// NewRun returns a Run with every measure missing and no repetition
// index.
func NewRun() *Run {
	r := &Run{Repetition: -1}
	for i := range r.Values {
		r.Values[i] = math.NaN()
	}
	return r
}

// A SyntaxError is a row of a run file that could not be used.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A Record is a single record read from a run file. It is either a
// *Run or a *SyntaxError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file.
	Pos() (fileName string, line int)
}

var _ Record = (*Run)(nil)
var _ Record = (*SyntaxError)(nil)
