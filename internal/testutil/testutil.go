// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the catalog admin
// dashboard: silent loggers, in-memory sessions and fake backend
// response writers.
package testutil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/alexedwards/scs/v2"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// NewSessionManager creates an scs session manager backed by its
// default in-memory store, suitable for tests.
func NewSessionManager() *scs.SessionManager {
	return scs.New()
}

// SessionContext returns a context with fresh session data loaded, so
// session reads and writes work without an HTTP round trip.
func SessionContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

// WriteEnvelope writes a successful backend response envelope carrying
// data and an optional total item count.
func WriteEnvelope(t *testing.T, w http.ResponseWriter, data any, total int) {
	t.Helper()
	body := map[string]any{
		"success": true,
		"data":    data,
	}
	if total > 0 {
		body["total"] = total
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encoding envelope: %v", err)
	}
}

// WriteError writes a failed backend response envelope with the given
// HTTP status and message.
func WriteError(t *testing.T, w http.ResponseWriter, status int, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
	if err != nil {
		t.Errorf("encoding error envelope: %v", err)
	}
}
