// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product.
//
// The backend has shipped two image shapes over time: a legacy single
// ImageURL and the newer ImageURLs list. Both may be populated on the
// same record; AllImageURLs reconciles them.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"categoryId"`
	SalesPrice  decimal.Decimal `json:"salesPrice"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	ImageURLs   []string        `json:"imageUrls,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// AllImageURLs merges the legacy single image and the image list into
// one deduplicated slice. The legacy image, when set, comes first;
// duplicates keep their first-seen position.
func (p *Product) AllImageURLs() []string {
	var urls []string
	seen := make(map[string]bool)

	appendURL := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	appendURL(p.ImageURL)
	for _, u := range p.ImageURLs {
		appendURL(u)
	}
	return urls
}

// HasImages returns true if the product carries at least one image
// reference in either representation.
func (p *Product) HasImages() bool {
	return p.ImageURL != "" || len(p.ImageURLs) > 0
}

// FormatPrice renders a price with two decimal places for display.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
