// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"io"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-intra-api/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Repository is the table-level CRUD contract implemented by
// [CRUDRepository]. Lookups return nil without an error when nothing
// matches; writes report the number of affected rows.
type Repository[T any] interface {
	Table() string
	Find(ctx context.Context, q Query) ([]T, error)
	FindOne(ctx context.Context, where sq.Sqlizer) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, values map[string]any) (string, error)
	UpdateByID(ctx context.Context, id string, values map[string]any) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	EnsureFileReferenceTrigger(ctx context.Context, fileTable string, columns []string) error
}

// UserRepository stores user accounts.
type UserRepository interface {
	Repository[models.User]

	// FindByUsernameOrEmailWithPassword is the only lookup that selects the
	// password hash.
	FindByUsernameOrEmailWithPassword(ctx context.Context, login string) (*models.User, error)
}

// FileRepository stores file metadata.
type FileRepository interface {
	Repository[models.File]

	// EnsureTombstoneTrigger provisions the trigger that records the path of
	// every deleted file in the tombstone table.
	EnsureTombstoneTrigger(ctx context.Context) error
}

// FileDeletedRepository reads and clears tombstones.
type FileDeletedRepository interface {
	Find(ctx context.Context, q Query) ([]models.FileDeleted, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// BlobStorage holds file bytes under opaque keys.
//
// Open and Remove return [ErrBlobNotFound] when no blob is stored under key.
type BlobStorage interface {
	// Put writes r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Move relocates the local file at srcPath into the storage under key.
	// srcPath no longer exists afterwards.
	Move(ctx context.Context, srcPath, key, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
}
