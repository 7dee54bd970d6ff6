package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/models"
)

var (
	// ErrSessionNotFound indicates the provided identifier does not map to an
	// active session.
	ErrSessionNotFound = errors.New("session not found")
)

// SessionStore persists browser sessions keyed by session identifier.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Find(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Session represents one browser session. The credential bundle is present
// exactly when the session is authenticated; the profile is derived data
// cached for page rendering.
type Session struct {
	ID        string
	Bundle    *oauth2.Token
	Profile   *models.Profile
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the session holds a credential bundle.
func (s Session) Authenticated() bool {
	return s.Bundle != nil
}

// Expired reports whether the session has outlived its TTL at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
