// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the transport layer. Callers can match against them
// with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("You must be authenticated to access this route")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("Invalid JSON was passed")

	// ErrInvalidGzip is returned when a gzip-encoded body cannot be inflated.
	ErrInvalidGzip = errors.New("Invalid gzip data")

	// ErrInvalidMultipart is returned when a multipart body cannot be read.
	ErrInvalidMultipart = errors.New("invalid multipart form")

	// ErrFileTooLarge is returned when an upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("File is too large")

	// ErrRouteForbidden is returned by the role guard.
	ErrRouteForbidden = errors.New("You don't have the right to access this route.")

	// ErrTooManyRequests is returned by the /auth rate limiter.
	ErrTooManyRequests = errors.New("Too many requests")
)
