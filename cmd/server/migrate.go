// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/migrations"
	"github.com/spf13/cobra"
)

// newMigrateCmd builds "migrate" (apply all) and "migrate down" (revert
// the latest migration).
func newMigrateCmd(flags *config.Flags) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := loadConfig(cmd.Context(), flags, appName+"-migrate")
			if err != nil {
				return err
			}

			db, err := connectDatabase(ctx, cfg.Storage.DB, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err = db.Migrate(); err != nil {
				log.Error().Err(err).Msg("error applying migrations")
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := loadConfig(cmd.Context(), flags, appName+"-migrate")
			if err != nil {
				return err
			}

			db, err := connectDatabase(ctx, cfg.Storage.DB, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err = migrations.Rollback(db.DB); err != nil {
				log.Error().Err(err).Msg("error reverting migration")
				return err
			}
			log.Info().Msg("latest migration reverted")
			return nil
		},
	})

	return migrate
}
