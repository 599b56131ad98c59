// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &DB{DB: conn, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var fileRowColumns = []string{"id", "filename", "path", "mime_type", "size", "version", "created_at", "updated_at"}

// ── Find ────────────────────────────────────────────────────────────────────

func TestCRUDRepository_Find(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, FileSchema)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, filename, path, mime_type, size, version, created_at, updated_at FROM files WHERE mime_type = $1 ORDER BY created_at DESC LIMIT 10 OFFSET 20",
	)).
		WithArgs("image/png").
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow("f-1", "a.png", "k1.png", "image/png", 10, 1, now, now).
			AddRow("f-2", "b.png", "k2.png", "image/png", 20, 2, now, now))

	files, err := repo.Find(context.Background(), Query{
		Where:   sq.Eq{"mime_type": "image/png"},
		OrderBy: []string{"created_at DESC"},
		Limit:   10,
		Offset:  20,
	})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "f-1", files[0].ID)
	assert.Equal(t, "k2.png", files[1].Path)
	assert.Equal(t, int64(20), files[1].Size)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDRepository_Find_Empty(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, FileSchema)

	mock.ExpectQuery("SELECT (.+) FROM files").WillReturnRows(sqlmock.NewRows(fileRowColumns))

	files, err := repo.Find(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestCRUDRepository_Find_Errors(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewCRUDRepository(db, FileSchema)
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

		_, err := repo.Find(context.Background(), Query{})
		assert.ErrorIs(t, err, ErrExecutingQuery)
	})

	t.Run("scan error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewCRUDRepository(db, FileSchema)
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow("f-1", "a", "k", "m", "not-a-number", 1, time.Now(), time.Now()))

		_, err := repo.Find(context.Background(), Query{})
		assert.ErrorIs(t, err, ErrScanningRow)
	})

	t.Run("rows error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewCRUDRepository(db, FileSchema)
		now := time.Now()
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow("f-1", "a", "k", "m", 1, 1, now, now).
			RowError(0, errors.New("broken stream")))

		_, err := repo.Find(context.Background(), Query{})
		assert.ErrorIs(t, err, ErrScanningRows)
	})

	t.Run("unknown column", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewCRUDRepository(db, FileSchema)
		mock.ExpectQuery("SELECT owner FROM files").
			WillReturnRows(sqlmock.NewRows([]string{"owner"}).AddRow("x"))

		_, err := repo.Find(context.Background(), Query{Columns: []string{"owner"}})
		assert.ErrorIs(t, err, ErrUnknownColumn)
	})
}

// ── FindOne / FindByID ──────────────────────────────────────────────────────

func TestCRUDRepository_FindByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, FileSchema)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM files WHERE id = $1 LIMIT 1")).
		WithArgs("f-1").
		WillReturnRows(sqlmock.NewRows(fileRowColumns).AddRow("f-1", "a.png", "k1.png", "image/png", 10, 1, now, now))

	file, err := repo.FindByID(context.Background(), "f-1")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "a.png", file.Filename)
}

// TestCRUDRepository_FindOne_Absent verifies that a missing row is reported
// as nil without an error.
func TestCRUDRepository_FindOne_Absent(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, FileSchema)

	mock.ExpectQuery("FROM files WHERE").WillReturnRows(sqlmock.NewRows(fileRowColumns))

	file, err := repo.FindOne(context.Background(), sq.Eq{"id": "missing"})
	require.NoError(t, err)
	assert.Nil(t, file)
}

// ── Insert ──────────────────────────────────────────────────────────────────

func TestCRUDRepository_Insert(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, FileSchema)

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO files (filename,mime_type,path,size) VALUES ($1,$2,$3,$4) RETURNING id",
	)).
		WithArgs("a.png", "image/png", "k1.png", int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("f-1"))

	id, err := repo.Insert(context.Background(), map[string]any{
		FileColumnFilename: "a.png",
		FileColumnPath:     "k1.png",
		FileColumnMimeType: "image/png",
		FileColumnSize:     int64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "f-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDRepository_Insert_Constraints(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "unique", code: pgerrcode.UniqueViolation, want: ErrUniqueViolation},
		{name: "foreign key", code: pgerrcode.ForeignKeyViolation, want: ErrForeignKeyViolation},
		{name: "not null", code: pgerrcode.NotNullViolation, want: ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := NewCRUDRepository(db, UserSchema)
			mock.ExpectQuery("INSERT INTO users").WillReturnError(pgError(tt.code))

			_, err := repo.Insert(context.Background(), map[string]any{UserColumnUsername: "alice123"})
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrConstraintViolation)
			assert.ErrorIs(t, err, ErrExecutingStatement)
		})
	}
}

// ── UpdateByID / DeleteByID ─────────────────────────────────────────────────

func TestCRUDRepository_UpdateByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, UserSchema)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE users SET avatar_id = $1, username = $2, updated_at = NOW(), version = version + 1 WHERE id = $3",
	)).
		WithArgs(nil, "alice123", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateByID(context.Background(), "u-1", map[string]any{
		UserColumnUsername: "alice123",
		UserColumnAvatarID: nil,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCRUDRepository_UpdateByID_NoRows(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, UserSchema)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateByID(context.Background(), "missing", map[string]any{UserColumnUsername: "x"})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestCRUDRepository_DeleteByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, FileSchema)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM files WHERE id = $1")).
		WithArgs("f-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteByID(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestCRUDRepository_DeleteByID_Error(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCRUDRepository(db, FileSchema)

	mock.ExpectExec("DELETE FROM files").WillReturnError(errors.New("disk full"))

	_, err := repo.DeleteByID(context.Background(), "f-1")
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrConstraintViolation)
}

func TestCRUDRepository_Table(t *testing.T) {
	db, _ := newTestDB(t)
	assert.Equal(t, "users", NewCRUDRepository(db, UserSchema).Table())
	assert.Equal(t, models.FileDeleted{}.TableName(), NewCRUDRepository(db, FileDeletedSchema).Table())
}
