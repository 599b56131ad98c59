// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a client for the go-intra-api REST surface.
//
// The primary abstraction is [ServerAdapter]. The package ships an HTTP
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] (e.g. [ErrUnauthorized]
// for 401, [ErrNotFound] for 404). The server's message is kept in the
// wrapped error text.
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/go-intra-api/models"
)

// ServerAdapter talks to a running go-intra-api server.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token, or an empty string.
	Token() string

	// Register creates an account and stores the returned access token.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)

	// Login authenticates by username or email and stores the returned
	// access token.
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)

	// ForgotPassword asks the server to mail a password reset link.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword sets a new password using a reset token.
	ResetPassword(ctx context.Context, token, password string) error

	// Me returns the authenticated account.
	Me(ctx context.Context) (models.User, error)

	// UploadAvatar replaces the avatar of the authenticated account.
	UploadAvatar(ctx context.Context, filename string, content io.Reader) (models.User, error)

	// DownloadFile streams the file with the given id into dst and returns
	// the number of bytes written.
	DownloadFile(ctx context.Context, id string, dst io.Writer) (int64, error)

	// Version returns the server's application version.
	Version(ctx context.Context) (string, error)

	// Health returns the server's health report. A 503 response is decoded
	// and returned together with [ErrServiceUnavailable].
	Health(ctx context.Context) (models.HealthResponse, error)
}
