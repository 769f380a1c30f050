// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the HTTP client for the catalog backend. All real
// business logic (validation, persistence, pricing, image storage)
// lives behind this API; the dashboard only presents it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for outgoing requests. An
// empty token means the request goes out unauthenticated (the login
// call).
type TokenSource interface {
	Token(ctx context.Context) string
}

type tokenContextKey struct{}

// ContextWithToken returns a context carrying an explicit bearer token
// that takes precedence over the client's TokenSource. Background
// fetches (debounced search) run outside a session-loaded context and
// use this to authenticate.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok
}

// Client talks to the catalog backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New creates a backend client. baseURL must not end with a slash.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// isLoginPath reports whether a path belongs to the login endpoint,
// which is exempt from the 401/403 session-teardown rule.
func isLoginPath(path string) bool {
	return strings.Contains(path, "/auth/login")
}

// doJSON issues a request with an optional JSON body and decodes the
// response envelope.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

// newRequest builds a request with the bearer token attached when one
// is available.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	token, ok := tokenFromContext(ctx)
	if !ok && c.tokens != nil {
		token = c.tokens.Token(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes a request and maps the response onto the error taxonomy:
// no response at all is ErrNetwork, 401/403 outside login is
// ErrUnauthorized, any other failure is a structured *Error.
func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) &&
		!isLoginPath(req.URL.Path) {
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	env := &envelope{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			slog.Debug("unparseable backend response",
				"status", resp.StatusCode,
				"path", req.URL.Path)
			if resp.StatusCode >= 400 {
				return nil, &Error{Status: resp.StatusCode}
			}
			return nil, fmt.Errorf("decoding response: %w", err)
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: env.Message,
			Body:    env.Error,
		}
	}
	return env, nil
}

// decodeData unmarshals the envelope data field into out.
func decodeData(env *envelope, out any) error {
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
