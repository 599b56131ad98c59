// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/spf13/cobra"
)

const appName = "go-intra-api"

// newRootCmd builds the server command tree. Running the root command
// without a subcommand serves the API.
func newRootCmd() *cobra.Command {
	var flags *config.Flags

	root := &cobra.Command{
		Use:           "server",
		Short:         "Multi-tenant intranet API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	flags = config.NewFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate the database and serve the HTTP and gRPC APIs",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), flags)
			},
		},
		newMigrateCmd(flags),
		&cobra.Command{
			Use:   "sweep",
			Short: "Remove the blobs of deleted files once and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSweep(cmd.Context(), flags)
			},
		},
	)

	return root
}

// loadConfig loads the structured configuration and returns a logger
// attached to ctx.
func loadConfig(ctx context.Context, flags *config.Flags, role string) (context.Context, *config.StructuredConfig, *logger.Logger, error) {
	log := logger.NewLogger(role)
	ctx = log.WithContext(ctx)

	cfg, err := config.GetStructuredConfig(flags)
	if err != nil {
		log.Error().Err(err).Msg("error getting configs")
		return ctx, nil, log, err
	}

	return ctx, cfg, log, nil
}

func loadSettings(log *logger.Logger) (config.Settings, error) {
	settings, err := config.LoadSettings(config.NewEnvAccessor(os.LookupEnv))
	if err != nil {
		log.Error().Err(err).Msg("error reading settings")
		return config.Settings{}, fmt.Errorf("settings: %w", err)
	}
	return settings, nil
}

func connectDatabase(ctx context.Context, cfg config.DB, log *logger.Logger) (*store.DB, error) {
	db, err := store.NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("error connecting database")
		return nil, err
	}
	return db, nil
}
