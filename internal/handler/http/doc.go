// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST API of the application.
//
// It exposes route wiring, request handlers and the middleware chain:
// panic recovery, request tracing, access logging, response compression of
// JSON routes, rate limiting of /auth, bearer authentication and the role
// guard. Every failure is answered by a single error translator with a
// uniform JSON body.
package http
