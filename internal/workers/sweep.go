// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/logger"
)

const codeSweep = "FILE_SWEEP_ERROR"

// SweepWorker runs [Sweeper.DeleteAllFile] at startup and then at every
// local midnight. A run is skipped when another process holds the lock.
type SweepWorker struct {
	files Sweeper
	lock  Locker

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	logger *logger.Logger
}

func NewSweepWorker(files Sweeper, lock Locker, logger *logger.Logger) *SweepWorker {
	return &SweepWorker{
		files:  files,
		lock:   lock,
		now:    time.Now,
		after:  time.After,
		logger: logger,
	}
}

func (w *SweepWorker) Run(ctx context.Context) {
	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.ErrorRecord(err, codeSweep).Msg("file sweep failed")
		}

		next := nextMidnight(w.now())
		w.logger.Debug().Time("next_run", next).Msg("file sweep scheduled")

		select {
		case <-ctx.Done():
			return
		case <-w.after(next.Sub(w.now())):
		}
	}
}

// RunOnce sweeps under the lock. It reports whether this process did the
// run.
//
// After a successful run the lease is kept until its TTL runs out, so
// replicas whose timers fire a little later skip the same run. A failed
// run releases the lock at once.
func (w *SweepWorker) RunOnce(ctx context.Context) (bool, error) {
	release, ok, err := w.lock.TryLock(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		w.logger.Info().Msg("file sweep skipped, another process holds the lock")
		return false, nil
	}

	start := w.now()
	if err := w.files.DeleteAllFile(ctx); err != nil {
		if releaseErr := release(context.WithoutCancel(ctx)); releaseErr != nil {
			w.logger.Warn().Err(releaseErr).Msg("file sweep lock wasn't released")
		}
		return true, err
	}
	w.logger.Info().Dur("duration", w.now().Sub(start)).Msg("file sweep finished")
	return true, nil
}

// nextMidnight returns the start of the day after now, in now's location.
func nextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
