// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs provides output file systems for reports and charts.
package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// An FS creates files by name.
type FS interface {
	// NewWriter returns a Writer for a given file name. When the
	// Writer is closed, the file will be stored with the given
	// metadata, if the underlying store supports it.
	NewWriter(ctx context.Context, name string, metadata map[string]string) (Writer, error)
}

// A Writer is an io.WriteCloser that can also be closed with an
// error, discarding the partial file.
type Writer interface {
	io.WriteCloser

	// CloseWithError cancels the write. The file is not stored.
	CloseWithError(error) error
}

// Open returns the FS for an output location: a gs://bucket/prefix
// URL or a local directory. credentials names a service account key
// file for Cloud Storage; empty means application default
// credentials.
func Open(ctx context.Context, location, credentials string) (FS, error) {
	if rest, ok := strings.CutPrefix(location, "gs://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, errors.New("missing bucket in " + location)
		}
		return NewGCS(ctx, bucket, prefix, credentials)
	}
	return NewLocal(location)
}

// MemFS is an in-memory file system.
type MemFS struct {
	mu      sync.Mutex
	content map[string]*memFile
}

// NewMemFS constructs a new, empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{
		content: make(map[string]*memFile),
	}
}

// NewWriter returns a Writer for a given file name. As a side effect,
// it associates the given metadata with the file.
func (fs *MemFS) NewWriter(_ context.Context, name string, metadata map[string]string) (Writer, error) {
	meta := make(map[string]string)
	for k, v := range metadata {
		meta[k] = v
	}
	return &memFile{fs: fs, name: name, metadata: meta}, nil
}

// Files returns the names of the stored files, sorted.
func (fs *MemFS) Files() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var files []string
	for name := range fs.content {
		files = append(files, name)
	}
	sort.Strings(files)
	return files
}

// Content returns the content and metadata of a stored file.
func (fs *MemFS) Content(name string) ([]byte, map[string]string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.content[name]
	if !ok {
		return nil, nil, false
	}
	return f.content.Bytes(), f.metadata, true
}

type memFile struct {
	fs       *MemFS
	name     string
	metadata map[string]string
	content  bytes.Buffer
}

func (f *memFile) Write(p []byte) (int, error) {
	return f.content.Write(p)
}

func (f *memFile) Close() error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.content[f.name] = f
	return nil
}

func (f *memFile) CloseWithError(error) error {
	return nil
}
