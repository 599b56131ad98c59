// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when an id-targeted lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when PostgreSQL rejects a write with
	// an integrity constraint violation (class 23).
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrUniqueViolation is returned when a write duplicates a unique column
	// (username, email, file path). It wraps [ErrConstraintViolation].
	ErrUniqueViolation = fmt.Errorf("%w: duplicate key value", ErrConstraintViolation)

	// ErrForeignKeyViolation is returned when a write references a missing
	// row. It wraps [ErrConstraintViolation].
	ErrForeignKeyViolation = fmt.Errorf("%w: foreign key violation", ErrConstraintViolation)

	// ErrBlobNotFound is returned by a [BlobStorage] when no blob is stored
	// under the requested key.
	ErrBlobNotFound = errors.New("blob not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML or DDL statement
	// (INSERT, UPDATE, DELETE, CREATE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when multi-row iteration fails, typically
	// mid-result-set.
	ErrScanningRows = errors.New("failed to iterate rows")

	// ErrUnknownColumn is returned when a query selects a column the schema
	// has no scan destination for.
	ErrUnknownColumn = errors.New("unknown column")
)
