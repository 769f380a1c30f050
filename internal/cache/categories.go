// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/tntware/catalog-admin/internal/model"
)

// categoriesKey is the cache key for the unpaginated category list.
const categoriesKey = "categories:all"

// Categories caches the full category list used by filter and select
// controls, in front of a loader that hits the backend.
type Categories struct {
	store Store
	load  func(ctx context.Context) ([]model.Category, error)
	ttl   time.Duration
}

// NewCategories creates the category list cache.
func NewCategories(store Store, ttl time.Duration, load func(ctx context.Context) ([]model.Category, error)) *Categories {
	return &Categories{store: store, load: load, ttl: ttl}
}

// All returns the category list, from cache when fresh. Cache
// infrastructure errors degrade to a direct backend load.
func (c *Categories) All(ctx context.Context) ([]model.Category, error) {
	if raw, err := c.store.Get(ctx, categoriesKey); err == nil {
		var categories []model.Category
		if err := json.Unmarshal(raw, &categories); err == nil {
			return categories, nil
		}
		slog.Warn("corrupt cached category list, refetching")
	}

	categories, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(categories); err == nil {
		if err := c.store.Set(ctx, categoriesKey, encoded, c.ttl); err != nil {
			slog.Warn("failed to cache category list", "error", err)
		}
	}
	return categories, nil
}

// Invalidate drops the cached list; called after any category
// mutation.
func (c *Categories) Invalidate(ctx context.Context) {
	if err := c.store.Delete(ctx, categoriesKey); err != nil {
		slog.Warn("failed to invalidate category cache", "error", err)
	}
}
