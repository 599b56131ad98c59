// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/handler"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful shutdown of every transport.
const shutdownTimeout = 15 * time.Second

type server struct {
	transports []transport
	logger     *logger.Logger
}

// NewServer creates a transport for every handler in handlers.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	s := &server{logger: logger}

	if handlers.HTTP != nil && cfg.HTTPAddress != "" {
		s.transports = append(s.transports, newHTTPServer(handlers.HTTP.Init(), cfg, logger))
	}
	if handlers.GRPC != nil && cfg.GRPCAddress != "" {
		s.transports = append(s.transports, newGRPCServer(handlers.GRPC, cfg, logger))
	}

	if len(s.transports) == 0 {
		return nil, errNoServersAreCreated
	}

	return s, nil
}

func (s *server) RunServer(ctx context.Context) error {
	return run(ctx, s.transports, shutdownTimeout, s.logger)
}

// run serves every transport until ctx is done or one of them fails, then
// shuts all of them down.
func run(ctx context.Context, transports []transport, timeout time.Duration, log *logger.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	for _, t := range transports {
		g.Go(func() error {
			log.Info().Msgf("launching %s server", t.name())
			if err := t.serve(); err != nil {
				return fmt.Errorf("%s server: %w", t.name(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		for _, t := range transports {
			if err := t.shutdown(shutdownCtx); err != nil {
				log.Err(err).Msgf("%s server shutdown", t.name())
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server shutdown gracefully")
	return nil
}
