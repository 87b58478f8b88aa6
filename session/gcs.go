/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"
	"errors"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
)

// GCSStore writes sessions as objects in a Cloud Storage bucket.
type GCSStore struct {
	bucket *storage.BucketHandle
	name   string
	prefix string
}

var _ Store = (*GCSStore)(nil)

// NewGCSStore returns a GCSStore writing to bucket, with object names
// placed under prefix when it is non-empty.
func NewGCSStore(client *storage.Client, bucket, prefix string) (*GCSStore, error) {
	if client == nil {
		return nil, errors.New("storage client cannot be nil")
	}
	if bucket == "" {
		return nil, errors.New("bucket name cannot be empty")
	}
	return &GCSStore{bucket: client.Bucket(bucket), name: bucket, prefix: prefix}, nil
}

// SaveResult implements Store.
func (s *GCSStore) SaveResult(ctx context.Context, d Dump) error {
	name, body, err := encode(d)
	if err != nil {
		return err
	}
	return s.write(ctx, name, "application/json", body)
}

// SaveAnswer implements Store.
func (s *GCSStore) SaveAnswer(ctx context.Context, id, answer string) error {
	name, err := answerName(id)
	if err != nil {
		return err
	}
	return s.write(ctx, name, "text/markdown; charset=utf-8", []byte(answer))
}

func (s *GCSStore) write(ctx context.Context, name, contentType string, body []byte) error {
	object := path.Join(s.prefix, name)
	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", s.name, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", s.name, object, err)
	}
	clog.FromContext(ctx).With("object", "gs://"+s.name+"/"+object).Debug("Saved session artifact")
	return nil
}
