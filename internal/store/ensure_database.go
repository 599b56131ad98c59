// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
)

const maintenanceDatabase = "postgres"

// EnsureDatabase creates the database named in dsn when it does not exist.
// It connects to the maintenance database with the same credentials.
func EnsureDatabase(ctx context.Context, dsn string, log *logger.Logger) error {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("error parsing database dsn: %w", err)
	}

	target := cfg.Database
	if target == "" || target == maintenanceDatabase {
		return nil
	}
	cfg.Database = maintenanceDatabase

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		log.Err(err).Str("func", "EnsureDatabase").Msg("error connecting maintenance database")
		return fmt.Errorf("error connecting maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, target).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if exists {
		return nil
	}

	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{target}.Sanitize())
	if err != nil && postgresError(err) != pgerrcode.DuplicateDatabase {
		log.Err(err).Str("func", "EnsureDatabase").Str("database", target).Msg("error creating database")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Info().Str("func", "EnsureDatabase").Str("database", target).Msg("database created")
	return nil
}
