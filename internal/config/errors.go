// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing token settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates an empty DSN or an unusable blob backend.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCacheConfigs indicates a missing Redis address.
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidMailConfigs indicates incomplete SMTP settings.
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
	// ErrInvalidServerConfigs indicates that no listener address is set.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)

// Errors returned by [EnvAccessor].
var (
	// ErrConfigValueMissing is returned when a required key is not set.
	ErrConfigValueMissing = errors.New("config value is missing")
	// ErrConfigValueInvalid is returned when a key is set but cannot be
	// converted to the requested type.
	ErrConfigValueInvalid = errors.New("config value is invalid")
)
