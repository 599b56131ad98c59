// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/mailer"
	"github.com/MKhiriev/go-intra-api/internal/store"
)

// Services groups every service used by the transport layer.
type Services struct {
	AuthService    AuthService
	UsersService   UsersService
	FilesService   FilesService
	AppInfoService AppInfoService
}

// NewServices wires the services over storages. Auth and user mutations are
// wrapped with request validation.
func NewServices(storages *store.Storages, cache UserCache, sender mailer.Sender, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	files := NewFilesService(storages.FileRepository, storages.FileDeletedRepository, storages.BlobStorage, cfg.Storage.Files, logger)
	users := NewUsersValidationService().Wrap(NewUsersService(storages.UserRepository, files, cache, logger))
	auth := NewAuthValidationService().Wrap(NewAuthService(users, sender, cfg.App, logger))

	return &Services{
		AuthService:    auth,
		UsersService:   users,
		FilesService:   files,
		AppInfoService: appInfo,
	}, nil
}

// Init provisions the database triggers the services rely on.
func (s *Services) Init(ctx context.Context) error {
	if err := s.FilesService.Init(ctx); err != nil {
		return fmt.Errorf("files service init: %w", err)
	}
	if err := s.UsersService.Init(ctx); err != nil {
		return fmt.Errorf("users service init: %w", err)
	}
	return nil
}
