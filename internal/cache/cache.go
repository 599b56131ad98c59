// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache implements the cache-aside layer: a typed view over an
// external TTL key-value store.
//
// The cache is advisory. Store failures are returned to the caller, which
// logs them and falls back to the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/logger"
)

// ErrCacheMiss is returned by a [Store] when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Store is a TTL-capable key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// KeyFunc computes the store key for a key descriptor.
type KeyFunc[K any] func(params K) string

// Cache stores values of type V under keys computed from descriptors of type K.
// Values are JSON-encoded.
type Cache[K, V any] struct {
	store  Store
	keyFn  KeyFunc[K]
	ttl    time.Duration
	logger *logger.Logger
}

// Option configures a [Cache].
type Option func(*options)

type options struct {
	debug *logger.Logger
}

// WithDebug logs every hit, miss, set and delete to log at debug level.
func WithDebug(log *logger.Logger) Option {
	return func(o *options) {
		o.debug = log
	}
}

// New returns a cache over store. ttl is used by Set when no TTL is passed.
func New[K, V any](store Store, keyFn KeyFunc[K], ttl time.Duration, opts ...Option) *Cache[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[K, V]{
		store:  store,
		keyFn:  keyFn,
		ttl:    ttl,
		logger: o.debug,
	}
}

// Key returns the store key of params.
func (c *Cache[K, V]) Key(params K) string {
	return c.keyFn(params)
}

// Get returns the cached value and true, or the zero value and false on a
// miss. Store and decoding failures are returned as errors.
func (c *Cache[K, V]) Get(ctx context.Context, params K) (V, bool, error) {
	var value V
	key := c.Key(params)

	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		c.debug("miss", key)
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("error reading cache key %s: %w", key, err)
	}

	if err = json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("error decoding cache key %s: %w", key, err)
	}

	c.debug("hit", key)
	return value, true, nil
}

// Set stores value under params. The optional ttl overrides the default.
func (c *Cache[K, V]) Set(ctx context.Context, params K, value V, ttl ...time.Duration) error {
	key := c.Key(params)

	expiration := c.ttl
	if len(ttl) > 0 {
		expiration = ttl[0]
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding cache key %s: %w", key, err)
	}

	if err = c.store.Set(ctx, key, raw, expiration); err != nil {
		return fmt.Errorf("error writing cache key %s: %w", key, err)
	}

	c.debug("set", key)
	return nil
}

// Delete removes params from the cache. Deleting an absent key is not an error.
func (c *Cache[K, V]) Delete(ctx context.Context, params K) error {
	key := c.Key(params)

	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("error deleting cache key %s: %w", key, err)
	}

	c.debug("delete", key)
	return nil
}

func (c *Cache[K, V]) debug(event, key string) {
	if c.logger == nil {
		return
	}
	c.logger.Debug().Str("event", event).Str("key", key).Msg("cache")
}
