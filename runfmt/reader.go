// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// A Header describes the columns of a run file.
type Header struct {
	// Columns are the column names as they appear in the file.
	Columns []string

	// Missing lists the key and measure fields that the file does
	// not have. Repetition and Count are optional and never listed.
	Missing []Field

	index [numFields]int
}

// Has reports whether the file has a column for f.
func (h *Header) Has(f Field) bool {
	return h.index[f] >= 0
}

// Keys returns the key fields present in the file, in column order.
func (h *Header) Keys() []Field {
	return h.present(KeyFields)
}

// Measures returns the measure fields present in the file, in column
// order.
func (h *Header) Measures() []Field {
	return h.present(Measures)
}

func (h *Header) present(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if h.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func parseHeader(cols []string) (*Header, error) {
	h := &Header{Columns: make([]string, len(cols))}
	for i := range h.index {
		h.index[i] = -1
	}
	for i, c := range cols {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		h.Columns[i] = c
		f, ok := FieldByName(c)
		if !ok {
			continue
		}
		if h.index[f] >= 0 {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		h.index[f] = i
	}
	for _, f := range KeyFields {
		if !h.Has(f) {
			h.Missing = append(h.Missing, f)
		}
	}
	for _, f := range Measures {
		if !h.Has(f) {
			h.Missing = append(h.Missing, f)
		}
	}
	if len(h.Keys()) == 0 {
		return nil, errors.New("no configuration columns")
	}
	if len(h.Measures()) == 0 {
		return nil, errors.New("no measure columns")
	}
	return h, nil
}

// A Reader reads run records from a CSV run file.
//
// Its API is modeled on bufio.Scanner. The first line of the input
// must be the header. Rows that cannot be used are returned as
// *SyntaxError records; these are not fatal and the caller may keep
// calling Scan.
type Reader struct {
	csv      *csv.Reader
	fileName string
	repair   bool

	hdr    *Header
	result Record
	err    error
}

// An Option configures a Reader.
type Option func(*Reader)

// RepairSchedule enables re-joining of schedule values that were
// written without quoting, such as "dynamic,1" spread over two
// columns. Without it such rows have too many fields and are reported
// as syntax errors.
func RepairSchedule(on bool) Option {
	return func(r *Reader) { r.repair = on }
}

var noResult = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NewReader returns a Reader that reads from r. fileName is used in
// error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string, opts ...Option) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	reader := &Reader{csv: cr, fileName: fileName, result: noResult}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Header returns the header of the file, or nil if it has not been
// read yet or could not be parsed.
func (r *Reader) Header() *Header {
	return r.hdr
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. If Scan reaches EOF or a fatal error occurs, it returns
// false, in which case the caller should use the Err method to check
// for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if r.hdr == nil {
		cols, err := r.csv.Read()
		if err == io.EOF {
			r.err = fmt.Errorf("%s: missing header line", r.fileName)
			return false
		} else if err != nil {
			r.err = fmt.Errorf("%s: reading header: %w", r.fileName, err)
			return false
		}
		r.hdr, err = parseHeader(cols)
		if err != nil {
			r.err = fmt.Errorf("%s:1: %w", r.fileName, err)
			return false
		}
	}

	fields, err := r.csv.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			r.result = &SyntaxError{r.fileName, perr.StartLine, perr.Err.Error()}
			return true
		}
		r.err = fmt.Errorf("%s: %w", r.fileName, err)
		return false
	}
	line, _ := r.csv.FieldPos(0)
	r.result = r.parseRow(fields, line)
	return true
}

// Result returns the record that was just read by Scan. This is either
// a *Run or a *SyntaxError. The *Run is freshly allocated and may be
// retained.
func (r *Reader) Result() Record {
	return r.result
}

// Err returns the first fatal error encountered by the Reader: an I/O
// error or an unusable header.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) parseRow(fields []string, line int) Record {
	want := len(r.hdr.Columns)
	if len(fields) != want && r.repair {
		fields = r.repairSchedule(fields)
	}
	if len(fields) != want {
		return &SyntaxError{r.fileName, line, fmt.Sprintf("has %d fields, want %d", len(fields), want)}
	}

	run := NewRun()
	run.SetPos(r.fileName, line)
	for f := Field(0); f < numFields; f++ {
		i := r.hdr.index[f]
		if i < 0 {
			continue
		}
		cell := strings.TrimSpace(fields[i])
		switch {
		case f.isText():
			run.setText(f, cell)
		case f.IsMeasure():
			run.SetValue(f, parseMeasure(cell))
		case f == Repetition:
			if n, err := parseInt(cell); err == nil {
				run.Repetition = n
			}
		case f == Count:
			if n, err := parseInt(cell); err == nil {
				run.Count = n
			}
		default:
			n, err := parseInt(cell)
			if err != nil {
				return &SyntaxError{r.fileName, line, fmt.Sprintf("parsing %s: %v", f, err)}
			}
			run.setInt(f, n)
		}
	}
	return run
}

// repairSchedule attempts to restore a row with exactly one extra
// field. It returns fields unchanged if no repair applies.
func (r *Reader) repairSchedule(fields []string) []string {
	s := r.hdr.index[Schedule]
	if s < 0 || len(fields) != len(r.hdr.Columns)+1 || s+1 >= len(fields) {
		return fields
	}
	kind, chunk := strings.TrimSpace(fields[s]), strings.TrimSpace(fields[s+1])
	switch {
	case (kind == "static" || kind == "dynamic" || kind == "guided") && isDigits(chunk):
		out := make([]string, 0, len(fields)-1)
		out = append(out, fields[:s]...)
		out = append(out, kind+","+chunk)
		return append(out, fields[s+2:]...)
	case s+2 < len(fields) && fields[s+1] == fields[s+2]:
		// A duplicated column after the schedule.
		out := make([]string, 0, len(fields)-1)
		out = append(out, fields[:s+1]...)
		return append(out, fields[s+2:]...)
	}
	return fields
}

func (r *Run) setText(f Field, v string) {
	switch f {
	case File:
		r.File = v
	case Method:
		r.Method = v
	case Schedule:
		r.Schedule = v
	}
}

func (r *Run) setInt(f Field, v int) {
	switch f {
	case Threads:
		r.Threads = v
	case LengthA:
		r.LengthA = v
	case LengthB:
		r.LengthB = v
	case Match:
		r.Match = v
	case Mismatch:
		r.Mismatch = v
	case Gap:
		r.Gap = v
	}
}

// Text returns the value of f as it is written to a CSV cell.
func (r *Run) Text(f Field) string {
	switch f {
	case File:
		return r.File
	case Method:
		return r.Method
	case Schedule:
		return r.Schedule
	case Threads:
		return strconv.Itoa(r.Threads)
	case LengthA:
		return strconv.Itoa(r.LengthA)
	case LengthB:
		return strconv.Itoa(r.LengthB)
	case Match:
		return strconv.Itoa(r.Match)
	case Mismatch:
		return strconv.Itoa(r.Mismatch)
	case Gap:
		return strconv.Itoa(r.Gap)
	case Repetition:
		if r.Repetition < 0 {
			return ""
		}
		return strconv.Itoa(r.Repetition)
	case Count:
		return strconv.Itoa(r.Count)
	}
	return FormatFloat(r.Value(f))
}

// parseMeasure parses a measure cell. Empty and unparseable cells are
// missing and yield NaN.
func parseMeasure(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseInt parses an integer cell. Integral floats such as "4.0" are
// accepted, since some tools write every numeric column as a float.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(v), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatFloat formats v the way the Writer does: the shortest
// representation that reads back to the same value, or an empty
// string for NaN.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
