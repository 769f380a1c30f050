// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web carries the dashboard's embedded assets: the HTML
// templates and the compiled static bundle served under /static/.
package web

import "embed"

// Templates holds the server-rendered page and partial templates.
//
//go:embed all:templates
var Templates embed.FS

// Static holds the compiled CSS/JS bundle.
//
//go:embed all:static/dist
var Static embed.FS
