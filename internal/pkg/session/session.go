// Package session holds the explicit session object for the running client.
// A session is created on successful authentication, destroyed on logout and
// never expires on its own: the source system has no session timeout and
// none is added here. The token is opaque; everything it grants is resolved
// server-side, which keeps logout an immediate revocation.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/armadatrack/armada/internal/domain"
)

// ErrSessionNotFound is returned when a token resolves to no live session.
var ErrSessionNotFound = errors.New("session not found")

// Session is the currently authenticated identity for one client.
// User is a cached copy of the directory entry; the directory service
// refreshes it when the user changes their own password.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Store keeps live sessions keyed by token.
type Store interface {
	// Create opens a new session for the user and returns it.
	Create(ctx context.Context, user domain.User) (*Session, error)

	// Get resolves a token. ErrSessionNotFound when absent.
	Get(ctx context.Context, token string) (*Session, error)

	// Refresh replaces the cached user copy of an existing session.
	Refresh(ctx context.Context, token string, user domain.User) error

	// Delete destroys the session. Deleting an absent token is a no-op.
	Delete(ctx context.Context, token string) error
}

// NewToken generates an opaque session token.
func NewToken() string {
	return uuid.NewString()
}
