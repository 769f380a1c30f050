// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int
		perPage    int
		want       int
	}{
		{"zero items", 0, 10, 1},
		{"less than one page", 5, 10, 1},
		{"exactly one page", 10, 10, 1},
		{"one item over", 11, 10, 2},
		{"multiple pages", 25, 10, 3},
		{"exact multiple", 30, 10, 3},
		{"zero per page", 10, 0, 1},
		{"negative per page", 10, -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotalPages(tt.totalItems, tt.perPage)
			if got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.totalItems, tt.perPage, got, tt.want)
			}
		})
	}
}

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{"missing", "/dashboard/products", 1},
		{"valid", "/dashboard/products?page=3", 3},
		{"zero", "/dashboard/products?page=0", 1},
		{"negative", "/dashboard/products?page=-2", 1},
		{"garbage", "/dashboard/products?page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := ParsePageParam(r); got != tt.want {
				t.Errorf("ParsePageParam(%s) = %d, want %d", tt.url, got, tt.want)
			}
		})
	}
}

func TestBuildPaginationPreservesQuery(t *testing.T) {
	params := url.Values{
		"q":        {"hammer"},
		"category": {"c1"},
		"page":     {"2"},
	}
	p := BuildPagination(2, 45, 10, "/dashboard/products", params)

	if p.TotalPages != 5 {
		t.Fatalf("TotalPages = %d, want 5", p.TotalPages)
	}
	want := "/dashboard/products?category=c1&q=hammer&page=3"
	if got := p.NextURL(); got != want {
		t.Errorf("NextURL() = %q, want %q", got, want)
	}
	if got := p.PrevURL(); got != "/dashboard/products?category=c1&q=hammer&page=1" {
		t.Errorf("PrevURL() = %q", got)
	}
}

func TestBuildPaginationSkipsEmptyParams(t *testing.T) {
	params := url.Values{"q": {""}}
	p := BuildPagination(1, 30, 10, "/dashboard/products", params)

	if got := p.PageURL(2); got != "/dashboard/products?page=2" {
		t.Errorf("PageURL(2) = %q, want no empty q param", got)
	}
}

func TestBuildPaginationEllipsis(t *testing.T) {
	p := BuildPagination(10, 200, 10, "/dashboard/products", nil)

	var ellipses, numbers int
	for _, page := range p.Pages {
		if page.IsEllipsis {
			ellipses++
		} else {
			numbers++
		}
	}
	// First and last page plus a 5-wide window around the current page.
	if numbers != 7 || ellipses != 2 {
		t.Errorf("pages = %d numbers, %d ellipses; want 7 and 2", numbers, ellipses)
	}
	if p.Pages[0].Number != 1 || p.Pages[len(p.Pages)-1].Number != 20 {
		t.Error("pagination should anchor at the first and last pages")
	}
}

func TestPaginationPageRange(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalItems int
		want       string
	}{
		{"first page", 1, 45, "1-10"},
		{"middle page", 3, 45, "21-30"},
		{"short last page", 5, 45, "41-45"},
		{"empty", 1, 0, "0-0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.page, tt.totalItems, 10, "/x", nil)
			if got := p.PageRange(); got != tt.want {
				t.Errorf("PageRange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaginationShouldShow(t *testing.T) {
	if BuildPagination(1, 5, 10, "/x", nil).ShouldShow() {
		t.Error("single page should not show pagination")
	}
	if !BuildPagination(1, 15, 10, "/x", nil).ShouldShow() {
		t.Error("two pages should show pagination")
	}
}
