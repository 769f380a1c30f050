// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for the two failure classes callers branch on.
var (
	// ErrNetwork marks a request that produced no HTTP response at all.
	ErrNetwork = errors.New("network failure")

	// ErrUnauthorized marks a 401/403 from any non-login endpoint. The
	// caller is expected to tear down the session and force re-login.
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorDetail is a single validation failure reported by the backend.
type ErrorDetail struct {
	Message string `json:"message"`
}

// ErrorBody is the structured error block of a backend response.
type ErrorBody struct {
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// envelope is the uniform response shape of the backend:
// {success, data?, total?, message?, error?}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Total   int             `json:"total,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

// Error is a structured failure reported by the backend, either as a
// non-2xx status or as a 2xx envelope with success=false.
type Error struct {
	Status  int
	Message string
	Body    *ErrorBody
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.userMessage("")
	if msg == "" {
		msg = "request failed"
	}
	if e.Status != 0 {
		return fmt.Sprintf("api: %s (status %d)", msg, e.Status)
	}
	return "api: " + msg
}

// userMessage applies the backend's message priority: first validation
// detail, then the structured error message, then the top-level
// message, then the supplied fallback.
func (e *Error) userMessage(fallback string) string {
	if e.Body != nil {
		if len(e.Body.Details) > 0 && e.Body.Details[0].Message != "" {
			return e.Body.Details[0].Message
		}
		if e.Body.Message != "" {
			return e.Body.Message
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// UserMessage extracts a human-readable message from any error
// returned by this package. Network failures get the generic
// connectivity message; structured backend errors go through the
// detail/message priority; anything else yields the fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if errors.Is(err, ErrNetwork) {
		return "Network error. Please check your connection."
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.userMessage(fallback)
	}
	return fallback
}

// List is a paginated backend result. Total is the backend's reported
// item count.
type List[T any] struct {
	Items []T
	Total int
}
