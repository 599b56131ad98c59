// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-intra-api/internal/logger"
)

// Schema describes how an entity maps onto its table.
//
// Columns are selected by default; Fields returns scan destinations for
// every column the table has, keyed by column name, so a query may select
// a superset of Columns (e.g. the password hash).
type Schema[T any] struct {
	Table   string
	Columns []string
	Fields  func(*T) map[string]any
}

// Query selects rows of a table. A zero Query selects every row in table
// order; Columns overrides [Schema.Columns].
type Query struct {
	Where   sq.Sqlizer
	OrderBy []string
	Limit   uint64
	Offset  uint64
	Columns []string
}

// CRUDRepository runs parameterised CRUD statements for one table.
// It knows nothing about relations; those are resolved by the service layer.
type CRUDRepository[T any] struct {
	db      *DB
	schema  Schema[T]
	builder sq.StatementBuilderType
}

// NewCRUDRepository builds a repository for schema on db.
func NewCRUDRepository[T any](db *DB, schema Schema[T]) *CRUDRepository[T] {
	return &CRUDRepository[T]{
		db:      db,
		schema:  schema,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Table returns the table name.
func (r *CRUDRepository[T]) Table() string {
	return r.schema.Table
}

// Find returns every row matching q.
func (r *CRUDRepository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	log := logger.FromContext(ctx)

	columns := q.Columns
	if len(columns) == 0 {
		columns = r.schema.Columns
	}

	builder := r.builder.Select(columns...).From(r.schema.Table)
	if q.Where != nil {
		builder = builder.Where(q.Where)
	}
	if len(q.OrderBy) > 0 {
		builder = builder.OrderBy(q.OrderBy...)
	}
	if q.Limit > 0 {
		builder = builder.Limit(q.Limit)
	}
	if q.Offset > 0 {
		builder = builder.Offset(q.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*CRUDRepository.Find").Str("table", r.schema.Table).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*CRUDRepository.Find").Str("table", r.schema.Table).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, classifyPostgresError(err))
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		var item T
		dest, err := r.destinations(&item, columns)
		if err != nil {
			return nil, err
		}
		if err = rows.Scan(dest...); err != nil {
			log.Err(err).Str("func", "*CRUDRepository.Find").Str("table", r.schema.Table).Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		results = append(results, item)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*CRUDRepository.Find").Str("table", r.schema.Table).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return results, nil
}

// FindOne returns the first row matching where, or nil when nothing matches.
func (r *CRUDRepository[T]) FindOne(ctx context.Context, where sq.Sqlizer) (*T, error) {
	return r.findOne(ctx, Query{Where: where, Limit: 1})
}

// FindByID returns the row with the given id, or nil when it does not exist.
func (r *CRUDRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return r.FindOne(ctx, sq.Eq{"id": id})
}

func (r *CRUDRepository[T]) findOne(ctx context.Context, q Query) (*T, error) {
	items, err := r.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// Insert writes a row and returns its generated id. Columns that are absent
// from values receive their database defaults.
func (r *CRUDRepository[T]) Insert(ctx context.Context, values map[string]any) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Insert(r.schema.Table).SetMap(values).Suffix("RETURNING id").ToSql()
	if err != nil {
		log.Err(err).Str("func", "*CRUDRepository.Insert").Str("table", r.schema.Table).Msg("failed to build query")
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id string
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		log.Err(err).Str("func", "*CRUDRepository.Insert").Str("table", r.schema.Table).Msg("failed to insert row")
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, classifyPostgresError(err))
	}

	return id, nil
}

// UpdateByID sets values on the row with the given id, bumps its version and
// updated_at, and returns the number of affected rows.
func (r *CRUDRepository[T]) UpdateByID(ctx context.Context, id string, values map[string]any) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Update(r.schema.Table).
		SetMap(values).
		Set("updated_at", sq.Expr("NOW()")).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*CRUDRepository.UpdateByID").Str("table", r.schema.Table).Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "*CRUDRepository.UpdateByID", query, args...)
}

// DeleteByID deletes the row with the given id and returns the number of
// affected rows. Triggers on the table run inside the same statement.
func (r *CRUDRepository[T]) DeleteByID(ctx context.Context, id string) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Delete(r.schema.Table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		log.Err(err).Str("func", "*CRUDRepository.DeleteByID").Str("table", r.schema.Table).Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "*CRUDRepository.DeleteByID", query, args...)
}

// EnsureFileReferenceTrigger provisions the AFTER DELETE trigger that
// removes the files referenced by columns. See [DB.EnsureFileReferenceTrigger].
func (r *CRUDRepository[T]) EnsureFileReferenceTrigger(ctx context.Context, fileTable string, columns []string) error {
	return r.db.EnsureFileReferenceTrigger(ctx, r.schema.Table, fileTable, columns)
}

func (r *CRUDRepository[T]) exec(ctx context.Context, funcName, query string, args ...any) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Str("table", r.schema.Table).Msg("failed to execute statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, classifyPostgresError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

func (r *CRUDRepository[T]) destinations(item *T, columns []string) ([]any, error) {
	fields := r.schema.Fields(item)
	dest := make([]any, 0, len(columns))
	for _, column := range columns {
		field, ok := fields[column]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.schema.Table, column)
		}
		dest = append(dest, field)
	}
	return dest, nil
}

