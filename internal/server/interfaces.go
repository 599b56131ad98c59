// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the lifecycle contract of the transport servers managed by
// this package.
type Server interface {
	// RunServer serves requests until ctx is done, then shuts down
	// gracefully. It returns the first listener failure.
	RunServer(ctx context.Context) error
}

// transport is a single listener run by [server].
type transport interface {
	name() string
	serve() error
	shutdown(ctx context.Context) error
}
