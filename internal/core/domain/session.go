package domain

import "time"

// Session is the server-issued proof of an authenticated identity with a
// validity window. The console never mutates it directly, it only reacts
// to it.
type Session struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the validity window has closed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthEventKind enumerates the notifications emitted by the auth provider
// over a console's event subscription.
type AuthEventKind string

const (
	AuthInitialSession AuthEventKind = "initial_session"
	AuthSignedIn       AuthEventKind = "signed_in"
	AuthSignedOut      AuthEventKind = "signed_out"
	AuthTokenRefreshed AuthEventKind = "token_refreshed"
	AuthUserUpdated    AuthEventKind = "user_updated"
)

// AuthEvent is a single auth-state notification. Session is nil for
// signed-out and for an initial-session event without a live session.
type AuthEvent struct {
	Kind    AuthEventKind
	Session *Session
}
