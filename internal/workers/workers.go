// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/redis/go-redis/v9"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the workers enabled in cfg.
func NewWorkers(cfg config.Workers, files Sweeper, client redis.Cmdable, logger *logger.Logger) *Workers {
	w := &Workers{}
	if cfg.SweepEnabled {
		lock := NewRedisLock(client, SweepLockKey, cfg.SweepLockTTL)
		w.workers = append(w.workers, NewSweepWorker(files, lock, logger))
	}
	return w
}

// Run starts every worker and blocks until all of them return.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}
	wg.Wait()
}
