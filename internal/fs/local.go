// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"context"
	"os"
	"path/filepath"
)

// Local is a directory on the local file system. Metadata is not
// stored.
type Local struct {
	dir string
}

// NewLocal returns a Local rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// Path returns the local path of the file name.
func (l *Local) Path(name string) string {
	return filepath.Join(l.dir, filepath.FromSlash(name))
}

// NewWriter creates name and any missing parent directories. The
// file is written to a temporary name and renamed into place on
// Close, so readers never see a partial file.
func (l *Local) NewWriter(_ context.Context, name string, _ map[string]string) (Writer, error) {
	path := l.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}
	return &localFile{File: f, path: path}, nil
}

type localFile struct {
	*os.File
	path string
}

func (f *localFile) Close() error {
	if err := f.File.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), f.path); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}

func (f *localFile) CloseWithError(error) error {
	err := f.File.Close()
	os.Remove(f.Name())
	return err
}
