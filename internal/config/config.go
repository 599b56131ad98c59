// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-intra-api server. It aggregates all sub-configurations and is
// populated by merging values from a dotenv file, environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters,
	// public URLs and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for all persistence backends, including
	// the relational database and the blob store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Cache holds the Redis connection used by the cache-aside layer and
	// the sweep leader lock.
	Cache Cache `envPrefix:"CACHE_"`

	// Mail holds the SMTP settings used for password-reset emails.
	Mail Mail `envPrefix:"MAIL_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control token
// lifecycle, public links and versioning.
type App struct {
	// Env selects the dotenv file loaded at startup (".env.<Env>").
	// Env: APP_ENV
	Env string `env:"ENV" envDefault:"development"`

	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an access token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// ResetTokenDuration specifies how long a password-reset token remains valid.
	// Env: APP_RESET_TOKEN_DURATION
	ResetTokenDuration time.Duration `env:"RESET_TOKEN_DURATION" envDefault:"10m"`

	// PasswordResetURL is the front-end page that receives the reset token
	// as the "token" query parameter.
	// Env: APP_PASSWORD_RESET_URL
	PasswordResetURL string `env:"PASSWORD_RESET_URL"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the blob store settings.
	Files Files `envPrefix:"FILES_"`

	// Minio holds the object storage settings used when Files.Backend is "minio".
	Minio Minio `envPrefix:"MINIO_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// EnsureDatabase creates the target database when it does not exist yet.
	// Env: STORAGE_DB_ENSURE_DATABASE
	EnsureDatabase bool `env:"ENSURE_DATABASE"`
}

// Blob store backends.
const (
	FilesBackendLocal = "local"
	FilesBackendMinio = "minio"
)

// Files holds blob store settings.
type Files struct {
	// Backend is either "local" or "minio".
	// Env: STORAGE_FILES_BACKEND
	Backend string `env:"BACKEND" envDefault:"local"`

	// Dir is the directory holding blobs of the local backend.
	// Env: STORAGE_FILES_DIR
	Dir string `env:"DIR" envDefault:"./uploads"`

	// TmpDir receives multipart uploads before they are moved into storage.
	// Env: STORAGE_FILES_TMP_DIR
	TmpDir string `env:"TMP_DIR"`

	// MaxUploadSize caps the size of a multipart request body in bytes.
	// Env: STORAGE_FILES_MAX_UPLOAD_SIZE
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`

	// SweepConcurrency bounds the number of blobs removed in parallel.
	// Env: STORAGE_FILES_SWEEP_CONCURRENCY
	SweepConcurrency int `env:"SWEEP_CONCURRENCY" envDefault:"8"`
}

// Minio holds object storage credentials and the target bucket.
type Minio struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET"`
	UseSSL    bool   `env:"USE_SSL"`
}

// Cache holds the Redis connection settings.
type Cache struct {
	// Address is the Redis "host:port".
	// Env: CACHE_ADDRESS
	Address string `env:"ADDRESS"`

	// Password is the optional Redis password.
	// Env: CACHE_PASSWORD
	Password string `env:"PASSWORD"`

	// DB is the Redis logical database index.
	// Env: CACHE_DB
	DB int `env:"DB"`
}

// Mail holds SMTP settings.
type Mail struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`

	// TLS dials the server over implicit TLS (usually port 465).
	TLS bool `env:"TLS"`
	// StartTLS upgrades a plain connection with STARTTLS.
	StartTLS bool `env:"STARTTLS"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health endpoint.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// AuthRateLimit is the sustained number of /auth requests per second
	// accepted from a single client address.
	// Env: SERVER_AUTH_RATE_LIMIT
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`

	// AuthRateBurst is the burst size of the /auth limiter.
	// Env: SERVER_AUTH_RATE_BURST
	AuthRateBurst int `env:"AUTH_RATE_BURST" envDefault:"10"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SweepEnabled starts the daily tombstone sweep inside the server process.
	// Env: WORKERS_SWEEP_ENABLED
	SweepEnabled bool `env:"SWEEP_ENABLED" envDefault:"true"`

	// SweepLockTTL is the lifetime of the Redis leader lock taken by a sweep.
	// A successful run keeps the lock until it expires, so it should exceed
	// the longest expected sweep.
	// Env: WORKERS_SWEEP_LOCK_TTL
	SweepLockTTL time.Duration `env:"SWEEP_LOCK_TTL" envDefault:"10m"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. dotenv file ".env.<APP_ENV>" (exported into the process environment)
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv().
		withEnv().
		withFlags(flags).
		withJSON().
		build()
}
