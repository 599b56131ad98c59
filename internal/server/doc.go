// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server wires and runs the application's transport servers.
//
// It runs the HTTP API and the optional gRPC health endpoint side by side
// and shuts both down gracefully when the run context is cancelled.
package server
