package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/api/metrics"
	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

const defaultSessionCheckTimeout = 5 * time.Second

// Controller owns the single source of truth for "who is logged in" and
// "which screen is active" for one console. It reconciles two racing
// asynchronous inputs: the one-shot current-session lookup issued by
// Initialize and the long-lived auth-event subscription pumped from the
// auth client. Correctness under either completion order rests on two
// rules: every view transition is gated behind the authChecked flag, and
// the authenticated/signed-out handlers are idempotent.
type Controller struct {
	client   ports.AuthClient
	profiles ports.ProfileSyncer
	log      zerolog.Logger

	seedAdminEmail      string
	sessionCheckTimeout time.Duration

	mu          sync.Mutex
	view        domain.View
	authChecked bool
	user        *domain.AuthUser
	profile     *domain.UserProfile
	session     *domain.Session

	done      chan struct{}
	closeOnce sync.Once
}

// ControllerOptions carries the construction-time settings of a Controller.
type ControllerOptions struct {
	// SeedAdminEmail is the break-glass operator identity (see IsAdmin).
	SeedAdminEmail string
	// SessionCheckTimeout bounds the Initialize lookup. Defaults to 5s.
	SessionCheckTimeout time.Duration
	Logger              zerolog.Logger
}

// NewController builds a Controller in the loading state and starts the
// event pump. Call Initialize once afterwards, and Close when the console
// goes away.
func NewController(client ports.AuthClient, profiles ports.ProfileSyncer, opts ControllerOptions) *Controller {
	timeout := opts.SessionCheckTimeout
	if timeout <= 0 {
		timeout = defaultSessionCheckTimeout
	}
	c := &Controller{
		client:              client,
		profiles:            profiles,
		log:                 opts.Logger,
		seedAdminEmail:      opts.SeedAdminEmail,
		sessionCheckTimeout: timeout,
		view:                domain.ViewLoading,
		done:                make(chan struct{}),
	}
	go c.pumpEvents()
	return c
}

// pumpEvents is the single consumer of the auth-event subscription. It
// exits when the client closes the channel (on Close).
func (c *Controller) pumpEvents() {
	for ev := range c.client.Events() {
		c.OnAuthEvent(ev.Kind, ev.Session)
	}
}

// Initialize performs the startup session determination: a current-session
// lookup bounded by the configured timeout. On timeout the controller
// proceeds exactly as if the lookup had returned "no session"; the
// in-flight call is not cancelled, and a late resolution carrying an
// actual session re-enters through the event path so it is not lost.
func (c *Controller) Initialize(ctx context.Context) {
	type lookup struct {
		session *domain.Session
		err     error
	}
	ch := make(chan lookup, 1)
	go func() {
		s, err := c.client.CurrentSession(ctx)
		ch <- lookup{s, err}
	}()

	select {
	case r := <-ch:
		switch {
		case r.err != nil:
			metrics.SessionChecksTotal.WithLabelValues("error").Inc()
		case r.session != nil:
			metrics.SessionChecksTotal.WithLabelValues("session").Inc()
		default:
			metrics.SessionChecksTotal.WithLabelValues("empty").Inc()
		}
		c.finishInitialCheck(r.session, r.err)
	case <-time.After(c.sessionCheckTimeout):
		c.log.Warn().Dur("timeout", c.sessionCheckTimeout).Msg("initial session check timed out, proceeding without session")
		metrics.SessionChecksTotal.WithLabelValues("timeout").Inc()
		c.finishInitialCheck(nil, nil)
		go func() {
			select {
			case r := <-ch:
				if r.err == nil && r.session != nil {
					c.OnAuthEvent(domain.AuthInitialSession, r.session)
				}
			case <-c.done:
			}
		}()
	case <-ctx.Done():
		metrics.SessionChecksTotal.WithLabelValues("error").Inc()
		c.finishInitialCheck(nil, ctx.Err())
	}
}

// finishInitialCheck records the outcome of the startup lookup and flips
// authChecked. Called at most twice only through racing paths that
// converge on the same terminal state.
func (c *Controller) finishInitialCheck(session *domain.Session, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Non-fatal: the console falls back to the welcome screen.
		c.log.Warn().Err(err).Msg("initial session check failed")
	}

	if session != nil && !session.Expired(time.Now()) {
		c.authenticatedLocked(session)
	} else if c.user == nil {
		// No session and no event beat us here: land on welcome.
		c.view = domain.ViewWelcome
		c.profile = nil
		c.session = nil
	}
	c.authChecked = true
}

// OnAuthEvent dispatches a single auth-state notification. Token refresh
// and user updates touch only the cached session, never the view, so a
// background refresh cannot yank the user off the screen they are on.
func (c *Controller) OnAuthEvent(kind domain.AuthEventKind, session *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch kind {
	case domain.AuthSignedIn, domain.AuthInitialSession:
		if session != nil {
			c.authenticatedLocked(session)
		}
	case domain.AuthSignedOut:
		c.signedOutLocked()
	case domain.AuthTokenRefreshed, domain.AuthUserUpdated:
		if session != nil {
			c.session = session
		}
	}
}

// authenticatedLocked applies a successful authentication. Idempotent:
// re-applying the same logical session leaves the caches and view
// unchanged. The cached user is set synchronously so the console can show
// "logged in" immediately; profile sync and the last-access stamp are
// fired without being awaited.
func (c *Controller) authenticatedLocked(session *domain.Session) {
	c.session = session
	c.user = &domain.AuthUser{ID: session.Subject, Email: session.Email}

	// Navigate to the dashboard only from the pre-auth screens, so an
	// event replay cannot pull the user away from wherever they are.
	switch c.view {
	case domain.ViewLoading, domain.ViewWelcome, domain.ViewLogin, domain.ViewRegister:
		c.view = domain.ViewDashboard
	}

	email := session.Email
	go c.syncProfile(email)
	go c.profiles.StampLastAccess(context.Background(), email)
}

// syncProfile runs the fetch-or-create off the authentication path and
// installs the result only if the same user is still signed in.
func (c *Controller) syncProfile(email string) {
	profile := c.profiles.EnsureProfile(context.Background(), email)
	if profile == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != nil && strings.EqualFold(c.user.Email, email) {
		c.profile = profile
	}
}

func (c *Controller) signedOutLocked() {
	c.user = nil
	c.profile = nil
	c.session = nil
	c.view = domain.ViewWelcome
}

// NavigateTo sets the active view. The access guard lives in the router
// (resolveScreen); the only rejection here mirrors it eagerly: once the
// initial check has completed, an anonymous console cannot hold a
// protected view.
func (c *Controller) NavigateTo(view domain.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authChecked && c.user == nil && !view.Public() {
		c.view = domain.ViewWelcome
		return
	}
	c.view = view
}

// IsAdmin reports whether the signed-in user may see admin screens: the
// cached profile carries the admin role, or the email matches the
// configured seed admin. The second leg exists so the first administrator
// can get in before any profile row does.
func (c *Controller) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isAdminLocked()
}

func (c *Controller) isAdminLocked() bool {
	if c.profile != nil && c.profile.TipoUsuario == domain.RoleAdmin {
		return true
	}
	return c.user != nil && c.seedAdminEmail != "" &&
		strings.EqualFold(c.user.Email, c.seedAdminEmail)
}

// Logout requests a provider sign-out and nothing else: the view
// transition arrives through the signed-out event, keeping a single
// writer of that transition.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.client.SignOut(ctx); err != nil {
		c.log.Warn().Err(err).Msg("sign out request failed")
	}
}

// resolveScreen is the view router: a pure mapping from view state plus
// auth state to the screen actually rendered.
func resolveScreen(view domain.View, hasUser, authChecked, isAdmin bool) domain.View {
	if !authChecked {
		return domain.ViewLoading
	}
	if !hasUser && !view.Public() {
		return domain.ViewWelcome
	}
	if view == domain.ViewAdmin && !isAdmin {
		return domain.ViewAccessDenied
	}
	return view
}

// ConsoleState is the renderable snapshot handed to the UI.
type ConsoleState struct {
	View        domain.View         `json:"view"`
	Screen      domain.View         `json:"screen"`
	AuthChecked bool                `json:"auth_checked"`
	User        *domain.AuthUser    `json:"user,omitempty"`
	Profile     *domain.UserProfile `json:"profile,omitempty"`
	IsAdmin     bool                `json:"is_admin"`
}

// Snapshot resolves and returns the current console state.
func (c *Controller) Snapshot() ConsoleState {
	c.mu.Lock()
	defer c.mu.Unlock()

	isAdmin := c.isAdminLocked()
	return ConsoleState{
		View:        c.view,
		Screen:      resolveScreen(c.view, c.user != nil, c.authChecked, isAdmin),
		AuthChecked: c.authChecked,
		User:        c.user,
		Profile:     c.profile,
		IsAdmin:     isAdmin,
	}
}

// Close releases the auth-event subscription so no handler runs against a
// torn-down console. Safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.client.Close()
	})
}
