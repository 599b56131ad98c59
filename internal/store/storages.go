// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
)

// Storages groups every repository and the blob storage.
type Storages struct {
	DB                    *DB
	UserRepository        UserRepository
	FileRepository        FileRepository
	FileDeletedRepository FileDeletedRepository
	BlobStorage           BlobStorage
}

// NewStorages connects to the database and the configured blob backend.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	blobs, err := NewBlobStorage(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storages{
		DB:                    db,
		UserRepository:        NewUserRepository(db, log),
		FileRepository:        NewFileRepository(db, log),
		FileDeletedRepository: NewFileDeletedRepository(db, log),
		BlobStorage:           blobs,
	}, nil
}

// NewBlobStorage returns the blob backend selected by cfg.Files.Backend.
func NewBlobStorage(ctx context.Context, cfg config.Storage) (BlobStorage, error) {
	switch cfg.Files.Backend {
	case config.FilesBackendLocal:
		return NewLocalBlobStorage(cfg.Files.Dir)
	case config.FilesBackendMinio:
		blobs, err := NewMinioBlobStorage(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err = blobs.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("error ensuring minio bucket: %w", err)
		}
		return blobs, nil
	}
	return nil, fmt.Errorf("unknown files backend %q", cfg.Files.Backend)
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	return s.DB.Close()
}
