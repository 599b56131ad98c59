// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/models"
)

// File table columns.
const (
	FileColumnFilename = "filename"
	FileColumnPath     = "path"
	FileColumnMimeType = "mime_type"
	FileColumnSize     = "size"
)

// FileSchema maps [models.File] onto the "files" table.
var FileSchema = Schema[models.File]{
	Table: models.File{}.TableName(),
	Columns: []string{
		"id", FileColumnFilename, FileColumnPath, FileColumnMimeType, FileColumnSize,
		"version", "created_at", "updated_at",
	},
	Fields: func(f *models.File) map[string]any {
		return map[string]any{
			"id":               &f.ID,
			FileColumnFilename: &f.Filename,
			FileColumnPath:     &f.Path,
			FileColumnMimeType: &f.MimeType,
			FileColumnSize:     &f.Size,
			"version":          &f.Version,
			"created_at":       &f.CreatedAt,
			"updated_at":       &f.UpdatedAt,
		}
	},
}

// FileDeletedSchema maps [models.FileDeleted] onto the tombstone table.
var FileDeletedSchema = Schema[models.FileDeleted]{
	Table:   models.FileDeleted{}.TableName(),
	Columns: []string{"id", FileColumnPath, "created_at"},
	Fields: func(f *models.FileDeleted) map[string]any {
		return map[string]any{
			"id":           &f.ID,
			FileColumnPath: &f.Path,
			"created_at":   &f.CreatedAt,
		}
	},
}

type fileRepository struct {
	*CRUDRepository[models.File]
}

// NewFileRepository constructs a [FileRepository] backed by db.
func NewFileRepository(db *DB, logger *logger.Logger) FileRepository {
	logger.Debug().Msg("creating file repository")
	return &fileRepository{CRUDRepository: NewCRUDRepository(db, FileSchema)}
}

func (r *fileRepository) EnsureTombstoneTrigger(ctx context.Context) error {
	return r.db.EnsureFileTombstoneTrigger(ctx, FileSchema.Table, FileDeletedSchema.Table)
}

// NewFileDeletedRepository constructs a [FileDeletedRepository] backed by db.
func NewFileDeletedRepository(db *DB, logger *logger.Logger) FileDeletedRepository {
	logger.Debug().Msg("creating file tombstone repository")
	return NewCRUDRepository(db, FileDeletedSchema)
}
