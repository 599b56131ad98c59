// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// LocalBlobStorage keeps blobs as files below a root directory.
type LocalBlobStorage struct {
	root string
}

// NewLocalBlobStorage creates root if needed and returns a storage rooted there.
func NewLocalBlobStorage(root string) (*LocalBlobStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("error creating files directory: %w", err)
	}
	return &LocalBlobStorage{root: root}, nil
}

// path resolves key below root; ".." segments cannot escape it.
func (s *LocalBlobStorage) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+key)))
}

func (s *LocalBlobStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("error creating blob %s: %w", key, err)
	}

	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("error writing blob %s: %w", key, err)
	}

	return f.Close()
}

func (s *LocalBlobStorage) Move(ctx context.Context, srcPath, key, contentType string) error {
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	if err := os.Rename(srcPath, dst); err == nil {
		return nil
	}

	// rename fails across devices; fall back to copy and remove
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("error opening uploaded file: %w", err)
	}
	defer src.Close()

	if err = s.Put(ctx, key, src, -1, contentType); err != nil {
		return err
	}

	return os.Remove(srcPath)
}

func (s *LocalBlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return f, err
}

func (s *LocalBlobStorage) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalBlobStorage) Remove(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return err
}

func (s *LocalBlobStorage) Copy(ctx context.Context, srcKey, dstKey string) error {
	src, err := s.Open(ctx, srcKey)
	if err != nil {
		return err
	}
	defer src.Close()

	return s.Put(ctx, dstKey, src, -1, "")
}
