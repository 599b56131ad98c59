// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
)

const countTriggers = `SELECT COUNT(*)
	FROM information_schema.triggers
	WHERE trigger_name = $1 AND event_object_table = $2;`

// FileReferenceFunctionName is the name of the plpgsql function deleting the
// files referenced by a row of table.
func FileReferenceFunctionName(table, fileTable string) string {
	return fmt.Sprintf("delete_referenced_%s_from_%s", fileTable, table)
}

// FileReferenceTriggerName is the name of the AFTER DELETE trigger on table.
func FileReferenceTriggerName(table string) string {
	return fmt.Sprintf("after_delete_%s_trigger", table)
}

// TombstoneFunctionName is the name of the plpgsql function recording the
// path of a deleted file.
func TombstoneFunctionName(fileTable string) string {
	return fmt.Sprintf("%s_delete_trigger", fileTable)
}

// TombstoneTriggerName is the name of the AFTER DELETE trigger on fileTable.
func TombstoneTriggerName(fileTable string) string {
	return fmt.Sprintf("after_%s_delete", fileTable)
}

// EnsureFileReferenceTrigger makes deleting a row of table also delete every
// non-null file referenced by columns.
//
// The function is created with CREATE OR REPLACE; the trigger is created only
// when no trigger with the same name exists on table, so calling this any
// number of times leaves exactly one trigger.
func (db *DB) EnsureFileReferenceTrigger(ctx context.Context, table, fileTable string, columns []string) error {
	if len(columns) == 0 {
		return nil
	}

	fn := FileReferenceFunctionName(table, fileTable)

	var body strings.Builder
	for _, column := range columns {
		col := pgx.Identifier{column}.Sanitize()
		fmt.Fprintf(&body, "\n\tIF OLD.%s IS NOT NULL THEN\n\t\tDELETE FROM %s WHERE id = OLD.%s;\n\tEND IF;",
			col, pgx.Identifier{fileTable}.Sanitize(), col)
	}

	function := fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s() RETURNS trigger AS $$
BEGIN%s
	RETURN OLD;
END;
$$ LANGUAGE plpgsql;`, pgx.Identifier{fn}.Sanitize(), body.String())

	return db.ensureTrigger(ctx, table, FileReferenceTriggerName(table), function, fn)
}

// EnsureFileTombstoneTrigger makes deleting a row of fileTable insert its path
// into tombstoneTable, for the sweep to remove the blob later.
func (db *DB) EnsureFileTombstoneTrigger(ctx context.Context, fileTable, tombstoneTable string) error {
	fn := TombstoneFunctionName(fileTable)

	function := fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s() RETURNS trigger AS $$
BEGIN
	INSERT INTO %s (path) VALUES (OLD.path);
	RETURN OLD;
END;
$$ LANGUAGE plpgsql;`, pgx.Identifier{fn}.Sanitize(), pgx.Identifier{tombstoneTable}.Sanitize())

	return db.ensureTrigger(ctx, fileTable, TombstoneTriggerName(fileTable), function, fn)
}

func (db *DB) ensureTrigger(ctx context.Context, table, trigger, function, fn string) error {
	log := logger.FromContext(ctx)

	if _, err := db.ExecContext(ctx, function); err != nil {
		log.Err(err).Str("func", "*DB.ensureTrigger").Str("function", fn).Msg("failed to create trigger function")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var count int
	if err := db.QueryRowContext(ctx, countTriggers, trigger, table).Scan(&count); err != nil {
		log.Err(err).Str("func", "*DB.ensureTrigger").Str("trigger", trigger).Msg("failed to look up trigger")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if count > 0 {
		log.Debug().Str("func", "*DB.ensureTrigger").Str("trigger", trigger).Msg("trigger already exists")
		return nil
	}

	create := fmt.Sprintf("CREATE TRIGGER %s AFTER DELETE ON %s FOR EACH ROW EXECUTE FUNCTION %s();",
		pgx.Identifier{trigger}.Sanitize(), pgx.Identifier{table}.Sanitize(), pgx.Identifier{fn}.Sanitize())

	// another instance may have created it between the check and here
	if _, err := db.ExecContext(ctx, create); err != nil && postgresError(err) != pgerrcode.DuplicateObject {
		log.Err(err).Str("func", "*DB.ensureTrigger").Str("trigger", trigger).Msg("failed to create trigger")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Info().Str("func", "*DB.ensureTrigger").Str("trigger", trigger).Str("table", table).Msg("trigger created")
	return nil
}
