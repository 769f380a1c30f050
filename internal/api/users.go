// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tntware/catalog-admin/internal/model"
)

// UserInput carries the writable user fields. Password is a pointer:
// nil omits the field from the payload entirely, which on update
// means "leave the stored password unchanged". An empty string is
// never sent.
type UserInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Password *string `json:"password,omitempty"`
}

// ListUsers fetches one page of users. The backend excludes the
// requesting user from the result.
func (c *Client) ListUsers(ctx context.Context, page int, search string) (List[model.User], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if search != "" {
		query.Set("search", search)
	}

	env, err := c.doJSON(ctx, http.MethodGet, "/users/others", query, nil)
	if err != nil {
		return List[model.User]{}, err
	}

	var items []model.User
	if err := decodeData(env, &items); err != nil {
		return List[model.User]{}, err
	}
	return List[model.User]{Items: items, Total: env.Total}, nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := decodeData(env, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user.
func (c *Client) CreateUser(ctx context.Context, in UserInput) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/users", nil, in)
	return err
}

// UpdateUser updates an existing user.
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, in)
	return err
}

// DeleteUser deletes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
	return err
}
