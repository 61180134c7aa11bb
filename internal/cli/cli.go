// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli holds the pieces shared by the nw commands: logging,
// warning collection and flag set construction.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// NewLogger returns a console logger writing to w. Debug messages are
// only written if verbose is set. Timestamps are omitted so output is
// reproducible.
func NewLogger(w io.Writer, verbose bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(lvl)
}

// ErrUsage is returned by a command when its arguments are invalid.
// Commands exit with status 2 on usage errors and 1 otherwise.
var ErrUsage = errors.New("usage error")

// NewFlagSet returns a flag set for command name that reports errors
// instead of exiting. Usage text goes to w.
func NewFlagSet(name string, w io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(w)
	fs.SortFlags = false
	return fs
}

// ExitCode returns the process exit status for the error returned by a
// command.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage), errors.Is(err, pflag.ErrHelp):
		return 2
	}
	return 1
}

// Warnings accumulates the non-fatal findings of a pass over the
// data. The zero value is ready to use.
type Warnings struct {
	errs *multierror.Error
}

// Add appends errs, skipping nil ones. Nested multierrors are
// flattened.
func (w *Warnings) Add(errs ...error) {
	w.errs = multierror.Append(w.errs, errs...)
}

// Len returns the number of warnings collected.
func (w *Warnings) Len() int {
	if w.errs == nil {
		return 0
	}
	return len(w.errs.Errors)
}

// List returns the warnings in the order they were added.
func (w *Warnings) List() []error {
	if w.errs == nil {
		return nil
	}
	return w.errs.Errors
}

// Err returns the warnings combined into one error, or nil.
func (w *Warnings) Err() error {
	return w.errs.ErrorOrNil()
}

// Log writes each warning to log at warn level.
func (w *Warnings) Log(log zerolog.Logger) {
	for _, err := range w.List() {
		log.Warn().Msg(err.Error())
	}
}

// Summary returns a one line description of the warnings, or "" if
// there are none.
func (w *Warnings) Summary() string {
	switch n := w.Len(); n {
	case 0:
		return ""
	case 1:
		return "1 warning"
	default:
		return fmt.Sprintf("%d warnings", n)
	}
}
