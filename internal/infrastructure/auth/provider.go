// Package auth implements the auth provider the console delegates to:
// password accounts in MongoDB, sessions in Redis with a TTL validity
// window, JWT access tokens, and per-console auth-event subscriptions.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore abstracts the session persistence used by the provider.
type SessionStore interface {
	Save(ctx context.Context, consoleID string, session *domain.Session) error
	Get(ctx context.Context, consoleID string) (*domain.Session, error)
	Delete(ctx context.Context, consoleID string) error
}

// Options carries provider construction settings.
type Options struct {
	JWTSecret string
	// SessionTTL is the validity window of issued sessions.
	SessionTTL time.Duration
	// TokenRefreshInterval controls the background re-issue loop of a
	// signed-in client. Zero disables refresh.
	TokenRefreshInterval time.Duration
	// RequireEmailConfirmation rejects sign-in for unconfirmed accounts.
	RequireEmailConfirmation bool
	Logger                   zerolog.Logger
}

// Provider is the shared half of the auth backend. Consoles talk to it
// through per-console Clients (see client.go).
type Provider struct {
	accounts ports.AccountRepository
	profiles ports.ProfileRepository
	sessions SessionStore
	opts     Options
	log      zerolog.Logger
}

func NewProvider(accounts ports.AccountRepository, profiles ports.ProfileRepository, sessions SessionStore, opts Options) *Provider {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	return &Provider{
		accounts: accounts,
		profiles: profiles,
		sessions: sessions,
		opts:     opts,
		log:      opts.Logger,
	}
}

// authenticate validates credentials and returns the matching account.
func (p *Provider) authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := p.accounts.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if p.opts.RequireEmailConfirmation && !account.Confirmed {
		return nil, domain.ErrEmailNotConfirmed
	}
	return account, nil
}

// createAccount registers a new credential record.
func (p *Provider) createAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return p.accounts.Create(ctx, &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		Confirmed:    !p.opts.RequireEmailConfirmation,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// issueSession builds a fresh session for the account and persists it
// under the console id.
func (p *Provider) issueSession(ctx context.Context, consoleID string, account *domain.Account, sessionID string) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        sessionID,
		Subject:   account.ID,
		Email:     account.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(p.opts.SessionTTL),
	}

	token, err := p.signToken(ctx, session)
	if err != nil {
		return nil, err
	}
	session.AccessToken = token

	if err := p.sessions.Save(ctx, consoleID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// renewSession extends the validity window and re-issues the access token.
func (p *Provider) renewSession(ctx context.Context, consoleID string, session *domain.Session) (*domain.Session, error) {
	now := time.Now().UTC()
	renewed := *session
	renewed.IssuedAt = now
	renewed.ExpiresAt = now.Add(p.opts.SessionTTL)

	token, err := p.signToken(ctx, &renewed)
	if err != nil {
		return nil, err
	}
	renewed.AccessToken = token

	if err := p.sessions.Save(ctx, consoleID, &renewed); err != nil {
		return nil, err
	}
	return &renewed, nil
}

// signToken mints the HS256 access token for a session. The role claim
// comes from the profile when one exists; a missing profile means the
// default role, never an error.
func (p *Provider) signToken(ctx context.Context, session *domain.Session) (string, error) {
	role := domain.RoleUser
	if profile, err := p.profiles.FindByEmail(ctx, session.Email); err == nil && profile != nil {
		role = profile.TipoUsuario
	}

	claims := jwt.MapClaims{
		"sub":   session.Subject,
		"email": session.Email,
		"role":  role,
		"sid":   session.ID,
		"iat":   session.IssuedAt.Unix(),
		"exp":   session.ExpiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(p.opts.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
