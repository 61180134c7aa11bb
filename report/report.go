// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report writes plain text and HTML summaries of aggregated
// Needleman-Wunsch benchmark results.
//
// Times are in milliseconds. Values that could not be computed, such
// as a percentage of a zero total, are written as "n/a".
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/nwalign/nwperf/internal/texttab"
)

const width = 80

var (
	rule   = strings.Repeat("=", width)
	dashes = strings.Repeat("-", width)
)

// A printer writes formatted text and remembers the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) table(t *texttab.Table) {
	if p.err != nil {
		return
	}
	p.err = t.Format(p.w)
}

// title writes a heading framed by rules.
func (p *printer) title(s string) {
	p.printf("%s\n%s\n%s\n", rule, s, rule)
}

// section writes a heading underlined with dashes.
func (p *printer) section(s string) {
	p.printf("%s\n%s\n", s, dashes)
}

func (p *printer) warnings(errs []error) {
	if len(errs) == 0 {
		return
	}
	p.printf("\nWARNINGS (%d)\n%s\n", len(errs), dashes)
	for _, err := range errs {
		p.printf("  - %v\n", err)
	}
}

// num formats x with prec decimals.
func num(x float64, prec int) string {
	switch {
	case math.IsNaN(x):
		return "n/a"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.*f", prec, x)
}

func ms(x float64) string  { return num(x, 2) }
func pct(x float64) string { return num(x, 2) + "%" }

// times formats a speedup factor.
func times(x float64) string { return num(x, 3) + "x" }
