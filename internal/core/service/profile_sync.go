package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/api/metrics"
	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

// ProfileSync implements ports.ProfileSyncer against the usuarios
// repository. One attempt per call, no retries: sync failures degrade the
// console (null profile, admin hidden) instead of blocking it.
type ProfileSync struct {
	repo ports.ProfileRepository
	log  zerolog.Logger
}

func NewProfileSync(repo ports.ProfileRepository, log zerolog.Logger) *ProfileSync {
	return &ProfileSync{repo: repo, log: log}
}

// EnsureProfile looks up the profile for email and creates the default row
// when none exists. Returns nil on any failure other than a clean create.
func (s *ProfileSync) EnsureProfile(ctx context.Context, email string) *domain.UserProfile {
	profile, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		metrics.ProfileSyncTotal.WithLabelValues("found").Inc()
		return profile
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		// Connectivity or similar: soft failure, the caller proceeds
		// with a null profile.
		s.log.Warn().Err(err).Str("email", email).Msg("profile lookup failed")
		metrics.ProfileSyncTotal.WithLabelValues("error").Inc()
		return nil
	}

	created, err := s.repo.Insert(ctx, domain.DefaultProfile(email, time.Now().UTC()))
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("profile create failed")
		metrics.ProfileSyncTotal.WithLabelValues("error").Inc()
		return nil
	}
	s.log.Info().Str("email", email).Msg("profile created")
	metrics.ProfileSyncTotal.WithLabelValues("created").Inc()
	return created
}

// StampLastAccess is fire-and-forget: failures are logged and otherwise
// ignored, never surfaced, never retried.
func (s *ProfileSync) StampLastAccess(ctx context.Context, email string) {
	if err := s.repo.StampLastAccess(ctx, email, time.Now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("last-access stamp failed")
	}
}
