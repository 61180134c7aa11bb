// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"os"
)

// A Files reads run records from a sequence of input files.
//
// Every file must carry its own header. Headers may differ between
// files; Header returns the header of the file currently being read.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin makes "-" name standard input, and an empty Paths
	// read standard input alone.
	AllowStdin bool

	// Options are passed to the Reader of each file.
	Options []Option

	// started records that Paths has been copied to inputs, so an
	// exhausted Files is distinguishable from a fresh one.
	started bool
	inputs  []string

	reader  *Reader
	file    *os.File
	isStdin bool
	err     error

	// headers accumulates the header of every file opened so far.
	headers []*Header
}

func (f *Files) init() {
	f.started = true
	f.inputs = append([]string(nil), f.Paths...)
	if f.AllowStdin && len(f.inputs) == 0 {
		f.inputs = []string{"-"}
	}
}

// Scan reads the next record, opening the next file when the current
// one is exhausted. It returns false after the last file or on an
// error that prevents reading further; Err tells the two apart.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if !f.started {
		f.init()
	}

	for {
		if f.file == nil {
			if len(f.inputs) == 0 {
				return false
			}
			path := f.inputs[0]
			f.inputs = f.inputs[1:]

			if f.AllowStdin && path == "-" {
				f.isStdin, f.file = true, os.Stdin
			} else {
				file, err := os.Open(path)
				if err != nil {
					f.err = err
					return false
				}
				f.isStdin, f.file = false, file
			}
			f.reader = NewReader(f.file, path, f.Options...)
		}

		if f.reader.Scan() {
			if len(f.headers) == 0 || f.headers[len(f.headers)-1] != f.reader.Header() {
				f.headers = append(f.headers, f.reader.Header())
			}
			return true
		}
		err := f.reader.Err()
		if !f.isStdin {
			f.file.Close()
		}
		f.file = nil
		if err != nil {
			f.err = err
			return false
		}
		if h := f.reader.Header(); h != nil && (len(f.headers) == 0 || f.headers[len(f.headers)-1] != h) {
			// A file with a header and no rows.
			f.headers = append(f.headers, h)
		}
	}
}

// Result returns the current record, a *Run or a *SyntaxError.
func (f *Files) Result() Record {
	if f.reader == nil {
		return noResult
	}
	return f.reader.Result()
}

// Err returns the error that stopped Scan. It is nil while Scan is
// still returning true and after every file was read.
func (f *Files) Err() error {
	return f.err
}

// Header returns the header of the most recently opened file, or nil.
func (f *Files) Header() *Header {
	if len(f.headers) == 0 {
		return nil
	}
	return f.headers[len(f.headers)-1]
}

// Headers returns the headers of every file read so far.
func (f *Files) Headers() []*Header {
	return f.headers
}
