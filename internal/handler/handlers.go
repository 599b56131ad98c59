// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"context"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/handler/grpc"
	"github.com/MKhiriev/go-intra-api/internal/handler/http"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a handler for every transport with a configured
// address.
func NewHandlers(services *service.Services, db Pinger, cfg config.StructuredConfig, settings config.Settings, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, db, http.Options{
			LogAllError: settings.LogAllError,
			Files:       cfg.Storage.Files,
			Server:      cfg.Server,
		}, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(db, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
