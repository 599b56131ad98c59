// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-intra-api/internal/cache"
	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/handler"
	"github.com/MKhiriev/go-intra-api/internal/mailer"
	"github.com/MKhiriev/go-intra-api/internal/server"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/internal/workers"
	"golang.org/x/sync/errgroup"
)

func runServe(ctx context.Context, flags *config.Flags) error {
	ctx, cfg, log, err := loadConfig(ctx, flags, appName)
	if err != nil {
		return err
	}

	settings, err := loadSettings(log)
	if err != nil {
		return err
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating storages")
		return err
	}
	defer storages.Close()

	if err = storages.DB.Migrate(); err != nil {
		log.Error().Err(err).Msg("error applying migrations")
		return err
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Cache)
	if err != nil {
		log.Error().Err(err).Msg("error connecting cache")
		return err
	}
	defer redisClient.Close()

	var cacheOpts []cache.Option
	if settings.CacheDebug {
		cacheOpts = append(cacheOpts, cache.WithDebug(log))
	}
	usersCache := cache.NewUsersCache(cache.NewRedisStore(redisClient), settings.UserCacheTTL, cacheOpts...)

	sender, err := mailer.NewSender(cfg.Mail, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating mail sender")
		return err
	}

	services, err := service.NewServices(storages, usersCache, sender, *cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating services")
		return err
	}
	if err = services.Init(ctx); err != nil {
		log.Error().Err(err).Msg("error initializing services")
		return err
	}
	services.UsersService.Bootstrap(ctx, settings.FirstUser)

	handlers, err := handler.NewHandlers(services, storages.DB, *cfg, settings, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating handlers")
		return err
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating server")
		return err
	}

	background := workers.NewWorkers(cfg.Workers, services.FilesService, redisClient, log)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.RunServer(gCtx)
	})
	g.Go(func() error {
		background.Run(gCtx)
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
