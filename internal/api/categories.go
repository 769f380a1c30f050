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

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListCategories fetches one page of categories, optionally filtered
// by a search term.
func (c *Client) ListCategories(ctx context.Context, page int, search string) (List[model.Category], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if search != "" {
		query.Set("search", search)
	}

	env, err := c.doJSON(ctx, http.MethodGet, "/categories", query, nil)
	if err != nil {
		return List[model.Category]{}, err
	}

	var items []model.Category
	if err := decodeData(env, &items); err != nil {
		return List[model.Category]{}, err
	}
	return List[model.Category]{Items: items, Total: env.Total}, nil
}

// AllCategories fetches the full unpaginated category list, used to
// populate filter and select controls.
func (c *Client) AllCategories(ctx context.Context) ([]model.Category, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("pagination", "false")

	env, err := c.doJSON(ctx, http.MethodGet, "/categories", query, nil)
	if err != nil {
		return nil, err
	}

	var items []model.Category
	if err := decodeData(env, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCategory fetches a single category by id.
func (c *Client) GetCategory(ctx context.Context, id string) (model.Category, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/categories/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return model.Category{}, err
	}

	var category model.Category
	if err := decodeData(env, &category); err != nil {
		return model.Category{}, err
	}
	return category, nil
}

// CreateCategory creates a new category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/categories", nil, in)
	return err
}

// UpdateCategory updates an existing category.
func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) error {
	_, err := c.doJSON(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nil, in)
	return err
}

// DeleteCategory deletes a category by id.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil)
	return err
}
