// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/adapter"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// clientConfig is read from the environment and overridden by flags.
type clientConfig struct {
	Address string        `env:"INTRA_API_ADDRESS" envDefault:"http://localhost:8080"`
	Token   string        `env:"INTRA_API_TOKEN"`
	Timeout time.Duration `env:"INTRA_API_TIMEOUT" envDefault:"30s"`
	Verbose bool          `env:"INTRA_API_VERBOSE"`
}

// cli carries what every subcommand needs.
type cli struct {
	cfg    clientConfig
	server adapter.ServerAdapter
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "client",
		Short:         "Command line client of the intranet API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.connect(cmd)
		},
	}

	if err := env.Parse(&c.cfg); err != nil {
		root.PersistentPreRunE = func(*cobra.Command, []string) error {
			return fmt.Errorf("client environment: %w", err)
		}
	}

	fs := root.PersistentFlags()
	fs.StringVarP(&c.cfg.Address, "address", "a", c.cfg.Address, "API address (env INTRA_API_ADDRESS)")
	fs.StringVarP(&c.cfg.Token, "token", "t", c.cfg.Token, "Bearer token (env INTRA_API_TOKEN)")
	fs.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "Request timeout (env INTRA_API_TIMEOUT)")
	fs.BoolVarP(&c.cfg.Verbose, "verbose", "v", c.cfg.Verbose, "Log requests to stderr")

	root.AddCommand(
		newRegisterCmd(c),
		newLoginCmd(c),
		newForgotPasswordCmd(c),
		newResetPasswordCmd(c),
		newMeCmd(c),
		newAvatarCmd(c),
		newDownloadCmd(c),
		newVersionCmd(c),
		newHealthCmd(c),
	)

	return root
}

func (c *cli) connect(cmd *cobra.Command) error {
	log := logger.Nop()
	if c.cfg.Verbose {
		log = logger.NewConsoleLogger("go-intra-client")
	}

	server, err := adapter.NewHTTPServerAdapter(c.cfg.Address, c.cfg.Timeout, log)
	if err != nil {
		return err
	}
	server.SetToken(c.cfg.Token)
	c.server = server
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
