// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tntware/catalog-admin/internal/model"
)

// sessionContext returns a context with a loaded in-memory session.
func sessionContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	return ctx
}

func TestIdentityRoundTrip(t *testing.T) {
	sm := scs.New()
	store := NewStore(sm)
	ctx := sessionContext(t, sm)

	assert.False(t, store.IsAuthenticated(ctx))
	assert.Empty(t, store.Token(ctx))
	_, ok := store.CurrentUser(ctx)
	assert.False(t, ok)

	user := model.User{ID: "u-1", Name: "Ada", Email: "ada@tnt.example", Role: model.RoleAdmin}
	require.NoError(t, store.SetIdentity(ctx, "tok-abc", user))

	assert.True(t, store.IsAuthenticated(ctx))
	assert.Equal(t, "tok-abc", store.Token(ctx))

	got, ok := store.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
	assert.True(t, got.IsAdmin())
}

func TestClearDropsIdentity(t *testing.T) {
	sm := scs.New()
	store := NewStore(sm)
	ctx := sessionContext(t, sm)

	require.NoError(t, store.SetIdentity(ctx, "tok", model.User{ID: "u-2", Role: model.RoleSales}))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, store.IsAuthenticated(ctx))
	_, ok := store.CurrentUser(ctx)
	assert.False(t, ok)
}
