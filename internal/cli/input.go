// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nwalign/nwperf/runagg"
	"github.com/nwalign/nwperf/runfmt"
)

// An Input is a run file read and aggregated.
type Input struct {
	Groups  []*runagg.Group
	Columns runfmt.Columns

	// Rows is the number of data rows read, including skipped ones.
	Rows    int
	Skipped []*runfmt.SyntaxError

	// Missing counts, per measure, the empty or non-numeric cells
	// left out of the means. Measures with none are absent.
	Missing map[runfmt.Field]int
}

// ReadGroups reads and aggregates the run file path. The number of
// skipped rows, missing columns and missing values are logged at warn
// level; each skipped row is logged at debug level.
func ReadGroups(log zerolog.Logger, path string, opts ...runfmt.Option) (*Input, error) {
	files := &runfmt.Files{Paths: []string{path}, Options: opts}
	runs, skipped, err := runagg.Collect(files)
	if err != nil {
		return nil, err
	}
	for _, serr := range skipped {
		log.Debug().Msgf("skipping row: %v", serr)
	}
	if len(skipped) > 0 {
		log.Warn().Str("file", path).Int("rows", len(skipped)).Msg("skipped malformed rows")
	}
	for _, h := range files.Headers() {
		for _, f := range h.Missing {
			log.Warn().Str("column", f.String()).Msg("column not found, ignoring it")
		}
	}

	in := &Input{
		Columns: runfmt.ColumnsOf(files.Headers()...),
		Rows:    len(runs) + len(skipped),
		Skipped: skipped,
		Missing: make(map[runfmt.Field]int),
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, runagg.ErrNoRows)
	}
	b := runagg.NewBuilder(in.Columns)
	for _, r := range runs {
		b.Add(r)
	}
	in.Groups = b.Groups()
	for _, f := range in.Columns.Measures {
		if n := b.Missing(f); n > 0 {
			in.Missing[f] = n
			log.Warn().Str("file", path).Str("column", f.String()).Int("cells", n).Msg("empty or non-numeric values left out of the means")
		}
	}
	return in, nil
}

// Warnings returns the warnings attached to the groups of in.
func (in *Input) Warnings() *Warnings {
	w := new(Warnings)
	for _, g := range in.Groups {
		w.Add(g.Warnings...)
	}
	return w
}
