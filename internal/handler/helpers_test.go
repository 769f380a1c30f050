// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "testing"

func TestListURL(t *testing.T) {
	tests := []struct {
		name   string
		page   int
		search string
		filter string
		want   string
	}{
		{"defaults", 1, "", "", "/dashboard/products"},
		{"page only", 3, "", "", "/dashboard/products?page=3"},
		{"search only", 1, "hammer", "", "/dashboard/products?q=hammer"},
		{"filter only", 1, "", "c1", "/dashboard/products?category=c1"},
		{"everything", 2, "hammer", "c1", "/dashboard/products?category=c1&page=2&q=hammer"},
		{"search needs escaping", 1, "a b", "", "/dashboard/products?q=a+b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listURL("/dashboard/products", tt.page, tt.search, tt.filter)
			if got != tt.want {
				t.Errorf("listURL(%d, %q, %q) = %q, want %q", tt.page, tt.search, tt.filter, got, tt.want)
			}
		})
	}
}
