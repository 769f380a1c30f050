// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/alexedwards/scs/v2"
)

// Session key under which pending flash notifications are stored.
const sessionKeyFlashes = "flashes"

// FlashSink stores notifications in the session so the next rendered
// page can show them as toasts. Popping is one-shot: a notification is
// shown exactly once.
type FlashSink struct {
	sessions *scs.SessionManager
}

// NewFlashSink creates a session-backed flash sink.
func NewFlashSink(sm *scs.SessionManager) *FlashSink {
	return &FlashSink{sessions: sm}
}

// Store implements Sink.
func (f *FlashSink) Store(ctx context.Context, n Notification) {
	var pending []Notification
	if raw := f.sessions.GetString(ctx, sessionKeyFlashes); raw != "" {
		// A corrupt payload is dropped rather than blocking new flashes.
		_ = json.Unmarshal([]byte(raw), &pending)
	}
	pending = append(pending, n)

	encoded, err := json.Marshal(pending)
	if err != nil {
		slog.Error("failed to encode flash notifications", "error", err)
		return
	}
	f.sessions.Put(ctx, sessionKeyFlashes, string(encoded))
}

// Pop removes and returns all pending notifications for the session.
func (f *FlashSink) Pop(ctx context.Context) []Notification {
	raw := f.sessions.PopString(ctx, sessionKeyFlashes)
	if raw == "" {
		return nil
	}
	var pending []Notification
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		slog.Error("failed to decode flash notifications", "error", err)
		return nil
	}
	return pending
}
