// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/service"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options tune the transport behaviour of a [Handler].
type Options struct {
	// LogAllError logs every failed request. 5xx responses are always logged.
	LogAllError bool

	// Files carries the upload limits and the spool directory of multipart
	// requests.
	Files config.Files

	// Server carries the /auth rate limit.
	Server config.Server
}

type Handler struct {
	services *service.Services
	db       Pinger
	options  Options

	logger *logger.Logger
}

func NewHandler(services *service.Services, db Pinger, options Options, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		db:       db,
		options:  options,
		logger:   logger,
	}
}
