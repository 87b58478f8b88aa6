/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
)

// FileStore writes sessions below a local directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// SaveResult implements Store.
func (s *FileStore) SaveResult(ctx context.Context, d Dump) error {
	name, body, err := encode(d)
	if err != nil {
		return err
	}
	return s.write(ctx, name, body)
}

// SaveAnswer implements Store.
func (s *FileStore) SaveAnswer(ctx context.Context, id, answer string) error {
	name, err := answerName(id)
	if err != nil {
		return err
	}
	return s.write(ctx, name, []byte(answer))
}

// LoadResult reads back the Dump saved for id.
func (s *FileStore) LoadResult(id string) (Dump, error) {
	if err := Validate(id); err != nil {
		return Dump{}, err
	}
	b, err := os.ReadFile(filepath.Join(s.dir, Prefix(id), ResultFile))
	if err != nil {
		return Dump{}, fmt.Errorf("read session %s: %w", id, err)
	}
	var d Dump
	if err := json.Unmarshal(b, &d); err != nil {
		return Dump{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return d, nil
}

func (s *FileStore) write(ctx context.Context, name string, body []byte) error {
	p := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	clog.FromContext(ctx).With("path", p).Debug("Saved session artifact")
	return nil
}
