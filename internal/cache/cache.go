// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache backs the category filter and select controls: the
// unpaginated category list is fetched once and reused until a
// category mutation invalidates it. The in-memory store serves a
// single instance; Redis serves multi-instance deployments.
package cache

import (
	"context"
	"time"
)

// Error is a cache error type.
type Error string

// Error implements the error interface.
func (e Error) Error() string { return string(e) }

// ErrMiss indicates the key was not found or has expired.
const ErrMiss Error = "cache miss"

// Store is a byte-value cache. Implementations must be thread-safe.
type Store interface {
	// Get returns the value for key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL; a zero TTL uses the
	// store's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
