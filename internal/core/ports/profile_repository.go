package ports

import (
	"context"
	"time"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// ProfileRepository defines persistence for the usuarios collection.
type ProfileRepository interface {
	// FindByEmail expects at most one row; returns ErrProfileNotFound
	// when none exists.
	FindByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	Insert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
	// StampLastAccess updates ultimo_acceso on the matching row.
	StampLastAccess(ctx context.Context, email string, at time.Time) error
	// List returns all profiles ordered by fecha_registro descending.
	List(ctx context.Context) ([]*domain.UserProfile, error)
}

// ProfileSyncer guarantees a profile row exists per authenticated email
// and keeps its last-access timestamp current. Both operations are
// single-attempt and soft-failing: errors are logged and swallowed so a
// backend hiccup never blocks reaching the dashboard.
type ProfileSyncer interface {
	// EnsureProfile returns nil (not an error) on soft failure; callers
	// must treat a nil profile as "role unknown, assume non-admin".
	EnsureProfile(ctx context.Context, email string) *domain.UserProfile
	StampLastAccess(ctx context.Context, email string)
}
