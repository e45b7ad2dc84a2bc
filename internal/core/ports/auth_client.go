package ports

import (
	"context"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// AuthClient is a per-console handle onto the auth provider. It owns one
// auth-event subscription for the lifetime of the console.
type AuthClient interface {
	// CurrentSession returns the live session for this console, or nil
	// when there is none. A nil session with a nil error is the normal
	// "not signed in" answer.
	CurrentSession(ctx context.Context) (*domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	// SignUp registers a new account. When email confirmation is
	// required the returned session is nil and the caller stays on the
	// form; otherwise the account is signed in immediately.
	SignUp(ctx context.Context, email, password, nombre string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	// Events delivers auth-state notifications until Close. The channel
	// is closed by Close.
	Events() <-chan domain.AuthEvent
	// Close releases the subscription. Safe to call more than once.
	Close() error
}
