// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"time"

	"github.com/MKhiriev/go-intra-api/models"
)

const usersSingleIDPrefix = "users-single-id-"

// UsersCache caches user records by id. The password hash is never stored
// because [models.User] does not serialise it.
type UsersCache = Cache[string, models.User]

// UserKey returns the cache key of the user with the given id.
func UserKey(id string) string {
	return usersSingleIDPrefix + id
}

// NewUsersCache returns the cache of single users.
func NewUsersCache(store Store, ttl time.Duration, opts ...Option) *UsersCache {
	return New[string, models.User](store, UserKey, ttl, opts...)
}
