// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify provides the in-process notification bus that carries
// user-facing toast notifications from handlers and middleware to
// whatever sinks are subscribed (the session flash sink, the log
// bridge, test recorders). The bus is created at startup and passed to
// consumers explicitly; there is no package-level singleton.
package notify

import (
	"context"
	"sync"
)

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// Notification is a single user-facing message.
type Notification struct {
	Level   string
	Title   string
	Message string
}

// Sink receives published notifications. The context is the request
// context of the publishing call site, so session-backed sinks can
// reach the current session.
type Sink func(ctx context.Context, n Notification)

// Bus fans notifications out to subscribed sinks in subscription order.
type Bus struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewBus creates an empty notification bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a sink. Subscription is expected to happen during
// startup, before requests are served.
func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Publish delivers a notification to every subscribed sink.
func (b *Bus) Publish(ctx context.Context, n Notification) {
	b.mu.RLock()
	sinks := make([]Sink, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.RUnlock()

	for _, s := range sinks {
		s(ctx, n)
	}
}

// Success publishes a success notification.
func (b *Bus) Success(ctx context.Context, title, message string) {
	b.Publish(ctx, Notification{Level: LevelSuccess, Title: title, Message: message})
}

// Error publishes an error notification.
func (b *Bus) Error(ctx context.Context, title, message string) {
	b.Publish(ctx, Notification{Level: LevelError, Title: title, Message: message})
}

// Warning publishes a warning notification.
func (b *Bus) Warning(ctx context.Context, title, message string) {
	b.Publish(ctx, Notification{Level: LevelWarning, Title: title, Message: message})
}

// Info publishes an info notification.
func (b *Bus) Info(ctx context.Context, title, message string) {
	b.Publish(ctx, Notification{Level: LevelInfo, Title: title, Message: message})
}
