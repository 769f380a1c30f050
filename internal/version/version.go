// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version describes the running build.
package version

// Info is populated at link time through -ldflags; a plain
// `go build` leaves every field empty.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
}

// String returns a single-line version description, falling back to
// "dev" for untagged builds.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	if i.GitCommit != "" {
		v += " (" + i.GitCommit + ")"
	}
	return v
}
