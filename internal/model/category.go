// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Category represents a product category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// CategoryOption is a category reduced to what select and filter
// controls need.
type CategoryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Options converts a category list into filter options, preserving order.
func Options(categories []Category) []CategoryOption {
	opts := make([]CategoryOption, 0, len(categories))
	for _, c := range categories {
		opts = append(opts, CategoryOption{ID: c.ID, Name: c.Name})
	}
	return opts
}

// CategoryName resolves a category id against a category list.
// Returns the raw id when no category matches, so stale references
// still render something identifiable.
func CategoryName(categories []Category, id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}
