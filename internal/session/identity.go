// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/alexedwards/scs/v2"

	"github.com/tntware/catalog-admin/internal/model"
)

// Session keys for the stored identity.
const (
	keyToken = "auth_token"
	keyUser  = "auth_user"
)

// Store reads and writes the authenticated identity in the session.
// It implements api.TokenSource, so the API client never touches
// session internals and no global token state exists.
type Store struct {
	sessions *scs.SessionManager
}

// NewStore creates an identity store over the session manager.
func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sessions: sm}
}

// SetIdentity stores the token and user after a successful login. The
// session token is renewed to prevent fixation.
func (s *Store) SetIdentity(ctx context.Context, token string, user model.User) error {
	if err := s.sessions.RenewToken(ctx); err != nil {
		return err
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.sessions.Put(ctx, keyToken, token)
	s.sessions.Put(ctx, keyUser, string(encoded))
	return nil
}

// Token returns the stored bearer token, or "" when not logged in.
func (s *Store) Token(ctx context.Context) string {
	return s.sessions.GetString(ctx, keyToken)
}

// CurrentUser returns the stored user record.
func (s *Store) CurrentUser(ctx context.Context) (model.User, bool) {
	raw := s.sessions.GetString(ctx, keyUser)
	if raw == "" {
		return model.User{}, false
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Error("corrupt user record in session", "error", err)
		return model.User{}, false
	}
	return user, true
}

// SessionID returns the scs session token identifying this browser
// session. Used to key per-session state such as list synchronizers.
func (s *Store) SessionID(ctx context.Context) string {
	return s.sessions.Token(ctx)
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// Clear destroys the session, dropping token and user.
func (s *Store) Clear(ctx context.Context) error {
	return s.sessions.Destroy(ctx)
}
