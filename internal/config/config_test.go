// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TNT_API_BASE_URL", "http://localhost:8000/api")
	t.Setenv("TNT_SESSION_SECRET", testSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UseRedisCache())
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TNT_API_BASE_URL", "http://localhost:8000/api/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TNT_SESSION_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TNT_SESSION_SECRET")
}

func TestLoadRejectsRelativeAPIURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TNT_API_BASE_URL", "/api")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TNT_API_BASE_URL")
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TNT_ITEMS_PER_PAGE", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestUseRedisCache(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TNT_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseRedisCache())
}
