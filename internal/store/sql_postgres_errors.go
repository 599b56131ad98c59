// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// postgresError returns the SQLSTATE code of err, or "" when err does not
// come from the server.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// SQLState returns the PostgreSQL error code carried by err, or "".
func SQLState(err error) string {
	return postgresError(err)
}

// classifyPostgresError wraps integrity constraint violations (class 23)
// with the matching sentinel so the HTTP layer can answer 422.
// Any other error is returned unchanged.
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
func classifyPostgresError(err error) error {
	if err == nil {
		return nil
	}

	switch postgresError(err) {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
	case pgerrcode.NotNullViolation,
		pgerrcode.CheckViolation,
		pgerrcode.RestrictViolation,
		pgerrcode.IntegrityConstraintViolation,
		pgerrcode.InvalidTextRepresentation: // bad uuid or enum literal
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	return err
}
