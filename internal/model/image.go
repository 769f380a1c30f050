// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"path"
	"strings"
)

// ImageRef points at an image persisted by the backend. Path is the
// value stored on the product record (a storage key or an absolute
// URL); URL is the dereferenceable form; Name is the filename shown
// to the user.
type ImageRef struct {
	Path string
	URL  string
	Name string
}

// NewImageRef builds an ImageRef from a stored path, resolving
// relative storage keys against the asset base URL.
func NewImageRef(storedPath, assetBaseURL string) ImageRef {
	return ImageRef{
		Path: storedPath,
		URL:  ResolveImageURL(storedPath, assetBaseURL),
		Name: ImageDisplayName(storedPath),
	}
}

// ResolveImageURL turns a stored image path into an absolute URL.
// Absolute URLs pass through untouched.
func ResolveImageURL(storedPath, assetBaseURL string) string {
	if storedPath == "" {
		return ""
	}
	if strings.HasPrefix(storedPath, "http://") || strings.HasPrefix(storedPath, "https://") {
		return storedPath
	}
	return strings.TrimSuffix(assetBaseURL, "/") + "/" + strings.TrimPrefix(storedPath, "/")
}

// ImageDisplayName extracts the filename component of an image path.
func ImageDisplayName(storedPath string) string {
	return path.Base(strings.TrimSuffix(storedPath, "/"))
}
