// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the background jobs of the server process.
//
// The only job today is the file sweep: it reclaims the blobs of deleted
// files once at startup and then every local midnight. Replicas elect the
// process doing a run through a Redis lock.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// Locker grants exclusive runs across processes.
type Locker interface {
	// TryLock acquires the lock without waiting. ok is false when another
	// process holds it. The lock expires on its own; release gives it up
	// early.
	TryLock(ctx context.Context) (release func(context.Context) error, ok bool, err error)
}

// Sweeper removes the blobs of deleted files.
type Sweeper interface {
	DeleteAllFile(ctx context.Context) error
}
