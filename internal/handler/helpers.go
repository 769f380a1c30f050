// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tntware/catalog-admin/internal/api"
	"github.com/tntware/catalog-admin/internal/notify"
	"github.com/tntware/catalog-admin/internal/session"
)

// notifyAndRedirect publishes a notification and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func notifyAndRedirect(w http.ResponseWriter, r *http.Request, bus *notify.Bus, level, url, title, message string) {
	bus.Publish(r.Context(), notify.Notification{Level: level, Title: title, Message: message})
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// notifyError publishes an error notification and redirects.
func notifyError(w http.ResponseWriter, r *http.Request, bus *notify.Bus, url, title, message string) {
	notifyAndRedirect(w, r, bus, notify.LevelError, url, title, message)
}

// notifySuccess publishes a success notification and redirects.
func notifySuccess(w http.ResponseWriter, r *http.Request, bus *notify.Bus, url, title, message string) {
	notifyAndRedirect(w, r, bus, notify.LevelSuccess, url, title, message)
}

// parseFormOrRedirect parses the request form and redirects with an error
// notification on failure. Returns true if parsing succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, bus *notify.Bus, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		notifyError(w, r, bus, redirectURL, "Error", "Invalid form data")
		return false
	}
	return true
}

// handleUnauthorized checks whether err means the backend rejected our
// token. If so it destroys the session and redirects to the login page,
// matching what a user would expect after their token expires.
// Returns true when the response has been written.
func handleUnauthorized(w http.ResponseWriter, r *http.Request, store *session.Store, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	if err := store.Clear(r.Context()); err != nil {
		slog.Error("failed to clear session after auth rejection", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// listURL builds a list page URL preserving the current query state, so a
// redirect after create/update/delete lands back on the same page, search
// and filter the user was on.
func listURL(base string, page int, search, filter string) string {
	params := make(url.Values)
	if search != "" {
		params.Set("q", search)
	}
	if filter != "" {
		params.Set("category", filter)
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}
