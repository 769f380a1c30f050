// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging configures the process-wide slog logger and bridges
// user-facing notifications into the application log.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/tntware/catalog-admin/internal/notify"
)

// ParseLevel maps a config string to a slog.Level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the default slog logger writing to stderr at the
// given level and returns it.
func Setup(level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// NotificationSink returns a notify.Sink that mirrors every published
// notification into the application log, so user-visible errors also
// leave a server-side trace.
func NotificationSink(logger *slog.Logger) notify.Sink {
	return func(_ context.Context, n notify.Notification) {
		attrs := []any{"title", n.Title, "message", n.Message}
		switch n.Level {
		case notify.LevelError:
			logger.Error("notification", attrs...)
		case notify.LevelWarning:
			logger.Warn("notification", attrs...)
		default:
			logger.Info("notification", attrs...)
		}
	}
}
