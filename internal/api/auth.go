// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tntware/catalog-admin/internal/model"
)

// Identity is a successful login result: the bearer token plus the
// user record it belongs to.
type Identity struct {
	Token string
	User  model.User
}

// Login authenticates against the backend. The login endpoint is the
// one place where a 401 is a normal outcome (bad credentials) rather
// than a session-teardown signal.
func (c *Client) Login(ctx context.Context, email, password string) (Identity, error) {
	body := map[string]string{"email": email, "password": password}

	env, err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, body)
	if err != nil {
		return Identity{}, err
	}

	// The login payload is the user record with the token inlined.
	var payload struct {
		Token string `json:"token"`
		model.User
	}
	if len(env.Data) == 0 {
		return Identity{}, fmt.Errorf("login response missing data")
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return Identity{}, fmt.Errorf("decoding login response: %w", err)
	}
	if payload.Token == "" {
		return Identity{}, fmt.Errorf("login response missing token")
	}

	return Identity{Token: payload.Token, User: payload.User}, nil
}

// ChangePassword changes the current user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	body := map[string]string{
		"oldPassword":     oldPassword,
		"newPassword":     newPassword,
		"confirmPassword": confirmPassword,
	}
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/change-password", nil, body)
	return err
}
