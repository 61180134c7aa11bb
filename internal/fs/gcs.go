// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"context"
	"fmt"
	"mime"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS is a prefix of a Google Cloud Storage bucket.
type GCS struct {
	bucket *storage.BucketHandle
	prefix string
}

// NewGCS constructs an FS that writes to the named bucket under
// prefix. If credentials is not empty it names a service account
// key file.
func NewGCS(ctx context.Context, bucketName, prefix, credentials string) (*GCS, error) {
	var opts []option.ClientOption
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCS{bucket: client.Bucket(bucketName), prefix: prefix}, nil
}

// NewWriter returns a writer for the object name under the prefix.
// The object is created when the writer is closed.
func (g *GCS) NewWriter(ctx context.Context, name string, metadata map[string]string) (Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := g.bucket.Object(path.Join(g.prefix, name)).NewWriter(ctx)
	w.Metadata = metadata
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.ContentType = ct
	}
	return &gcsWriter{Writer: w, cancel: cancel}, nil
}

type gcsWriter struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *gcsWriter) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

// CloseWithError cancels the upload so no object is created.
func (w *gcsWriter) CloseWithError(err error) error {
	w.cancel()
	w.Writer.Close()
	return nil
}
