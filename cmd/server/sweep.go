// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"

	"github.com/MKhiriev/go-intra-api/internal/cache"
	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/service"
	"github.com/MKhiriev/go-intra-api/internal/store"
	"github.com/MKhiriev/go-intra-api/internal/workers"
)

// runSweep removes the blobs of every tombstone once. It takes the same
// Redis leader lock as the in-process sweep, so it is safe to schedule
// next to running servers.
func runSweep(ctx context.Context, flags *config.Flags) error {
	ctx, cfg, log, err := loadConfig(ctx, flags, appName+"-sweep")
	if err != nil {
		return err
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Error().Err(err).Msg("error creating storages")
		return err
	}
	defer storages.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Cache)
	if err != nil {
		log.Error().Err(err).Msg("error connecting cache")
		return err
	}
	defer redisClient.Close()

	files := service.NewFilesService(storages.FileRepository, storages.FileDeletedRepository, storages.BlobStorage, cfg.Storage.Files, log)
	lock := workers.NewRedisLock(redisClient, workers.SweepLockKey, cfg.Workers.SweepLockTTL)

	ran, err := workers.NewSweepWorker(files, lock, log).RunOnce(ctx)
	if err != nil {
		log.ErrorRecord(err, "FILE_SWEEP_ERROR").Msg("sweep failed")
		return err
	}
	if !ran {
		log.Info().Msg("another instance holds the sweep lock, nothing to do")
		return nil
	}

	log.Info().Msg("sweep finished")
	return nil
}
