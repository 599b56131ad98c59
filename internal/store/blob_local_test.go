// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlobStorage(t *testing.T) (*LocalBlobStorage, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalBlobStorage(root)
	require.NoError(t, err)
	return s, root
}

func readBlob(t *testing.T, s BlobStorage, key string) string {
	t.Helper()
	rc, err := s.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestLocalBlobStorage_PutOpen(t *testing.T) {
	s, root := newTestBlobStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.txt", strings.NewReader("hello"), 5, "text/plain"))
	assert.Equal(t, "hello", readBlob(t, s, "a.txt"))
	assert.FileExists(t, filepath.Join(root, "a.txt"))

	// keys are never overwritten
	assert.Error(t, s.Put(ctx, "a.txt", strings.NewReader("again"), 5, "text/plain"))
}

func TestLocalBlobStorage_KeyCannotEscapeRoot(t *testing.T) {
	s, root := newTestBlobStorage(t)

	require.NoError(t, s.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, ""))
	assert.FileExists(t, filepath.Join(root, "escape.txt"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "escape.txt"))
}

func TestLocalBlobStorage_Move(t *testing.T) {
	s, _ := newTestBlobStorage(t)
	src := filepath.Join(t.TempDir(), "upload-123")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	require.NoError(t, s.Move(context.Background(), src, "moved.bin", "application/octet-stream"))

	assert.NoFileExists(t, src)
	assert.Equal(t, "payload", readBlob(t, s, "moved.bin"))
}

func TestLocalBlobStorage_ExistsRemove(t *testing.T) {
	s, _ := newTestBlobStorage(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a.txt", strings.NewReader("hello"), 5, ""))

	ok, err := s.Exists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Remove(ctx, "a.txt"))

	ok, err = s.Exists(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Remove(ctx, "a.txt"), ErrBlobNotFound)
	_, err = s.Open(ctx, "a.txt")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestLocalBlobStorage_Copy(t *testing.T) {
	s, _ := newTestBlobStorage(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "src.txt", strings.NewReader("same bytes"), -1, ""))

	require.NoError(t, s.Copy(ctx, "src.txt", "dst.txt"))
	assert.Equal(t, "same bytes", readBlob(t, s, "dst.txt"))
	assert.Equal(t, "same bytes", readBlob(t, s, "src.txt"))

	assert.ErrorIs(t, s.Copy(ctx, "missing.txt", "other.txt"), ErrBlobNotFound)
}
