// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"time"

	"github.com/MKhiriev/go-intra-api/models"
)

// Flat keys read through [EnvAccessor].
const (
	KeyFirstUserUsername = "FIRST_USER_USERNAME"
	KeyFirstUserPassword = "FIRST_USER_PASSWORD"
	KeyFirstUserEmail    = "FIRST_USER_EMAIL"
	KeyFirstUserRole     = "FIRST_USER_ROLE"
	KeyUserCacheTTL      = "USER_CACHE_TTL"
	KeyCacheDebug        = "CACHE_DEBUG"
	KeyLogAllError       = "LOG_ALL_ERROR"
)

// Settings are runtime switches read from flat environment keys.
type Settings struct {
	// FirstUser is the account created on startup if it does not exist.
	FirstUser models.FirstUser

	// UserCacheTTL is the lifetime of cached user records.
	// USER_CACHE_TTL is given in milliseconds.
	UserCacheTTL time.Duration

	// CacheDebug logs every cache hit, miss, write and eviction.
	CacheDebug bool

	// LogAllError logs every failed request, not only 5xx responses.
	LogAllError bool
}

// LoadSettings reads [Settings] through a. All keys are required.
func LoadSettings(a *EnvAccessor) (Settings, error) {
	var (
		s    Settings
		errs []error
		err  error
	)

	if s.FirstUser.Username, err = a.GetString(KeyFirstUserUsername); err != nil {
		errs = append(errs, err)
	}
	if s.FirstUser.Password, err = a.GetString(KeyFirstUserPassword); err != nil {
		errs = append(errs, err)
	}
	if s.FirstUser.Email, err = a.GetString(KeyFirstUserEmail); err != nil {
		errs = append(errs, err)
	}

	roles := make([]string, 0, len(models.Roles))
	for _, r := range models.Roles {
		roles = append(roles, string(r))
	}
	role, err := a.GetEnum(KeyFirstUserRole, roles...)
	if err != nil {
		errs = append(errs, err)
	}
	s.FirstUser.Role = models.Role(role)

	ttl, err := a.GetNumber(KeyUserCacheTTL)
	if err != nil {
		errs = append(errs, err)
	}
	s.UserCacheTTL = time.Duration(ttl * float64(time.Millisecond))

	if s.CacheDebug, err = a.GetBoolean(KeyCacheDebug); err != nil {
		errs = append(errs, err)
	}
	if s.LogAllError, err = a.GetBoolean(KeyLogAllError); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Settings{}, errors.Join(errs...)
	}
	return s, nil
}
