package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecostation/monitoring-console/internal/api/metrics"
	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// eventBuffer bounds the per-console event channel. The console's pump is
// the single consumer; if it ever lags this far behind, newer events win
// and the dropped ones are logged.
const eventBuffer = 16

// Client is the per-console handle implementing ports.AuthClient. Each
// console owns exactly one Client for its lifetime; the Client owns the
// console's auth-event subscription.
type Client struct {
	p         *Provider
	consoleID string

	mu          sync.Mutex
	current     *domain.Session
	events      chan domain.AuthEvent
	stopRefresh chan struct{}
	closed      bool
}

// NewClient creates the auth handle for a console. The consoleID doubles
// as the session key, so a returning console resumes its prior session.
func (p *Provider) NewClient(consoleID string) *Client {
	return &Client{
		p:         p,
		consoleID: consoleID,
		events:    make(chan domain.AuthEvent, eventBuffer),
	}
}

// CurrentSession looks up the stored session for this console. A missing
// or expired session is the normal "not signed in" answer, not an error.
// A live session is also announced on the event channel as the initial
// session, mirroring how the subscription's first event behaves.
func (c *Client) CurrentSession(ctx context.Context) (*domain.Session, error) {
	session, err := c.p.sessions.Get(ctx, c.consoleID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			c.emit(domain.AuthInitialSession, nil)
			return nil, nil
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = c.p.sessions.Delete(ctx, c.consoleID)
		c.emit(domain.AuthInitialSession, nil)
		return nil, nil
	}

	c.mu.Lock()
	c.current = session
	c.mu.Unlock()
	c.startRefreshLoop()

	c.emit(domain.AuthInitialSession, session)
	return session, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	account, err := c.p.authenticate(ctx, email, password)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			metrics.LoginFailuresTotal.WithLabelValues("invalid_credentials").Inc()
		case domain.ErrEmailNotConfirmed:
			metrics.LoginFailuresTotal.WithLabelValues("email_not_confirmed").Inc()
		default:
			metrics.LoginFailuresTotal.WithLabelValues("internal").Inc()
		}
		return nil, err
	}

	session, err := c.p.issueSession(ctx, c.consoleID, account, uuid.NewString())
	if err != nil {
		metrics.LoginFailuresTotal.WithLabelValues("internal").Inc()
		return nil, err
	}

	c.mu.Lock()
	c.current = session
	c.mu.Unlock()
	c.startRefreshLoop()

	c.emit(domain.AuthSignedIn, session)
	return session, nil
}

// SignUp registers a new account. Without email confirmation the account
// is signed in immediately; with it, the returned session is nil and the
// caller stays on the form until the address is confirmed.
func (c *Client) SignUp(ctx context.Context, email, password, nombre string) (*domain.Session, error) {
	account, err := c.p.createAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.p.log.Info().Str("email", account.Email).Msg("account registered")

	if !account.Confirmed {
		return nil, nil
	}

	session, err := c.p.issueSession(ctx, c.consoleID, account, uuid.NewString())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = session
	c.mu.Unlock()
	c.startRefreshLoop()

	c.emit(domain.AuthSignedIn, session)
	return session, nil
}

// SignOut revokes the stored session and announces the sign-out. Signing
// out an already signed-out console is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	hadSession := c.current != nil
	c.current = nil
	stop := c.stopRefresh
	c.stopRefresh = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if !hadSession {
		return nil
	}

	if err := c.p.sessions.Delete(ctx, c.consoleID); err != nil {
		c.p.log.Warn().Err(err).Str("console", c.consoleID).Msg("session revoke failed")
	}
	c.emit(domain.AuthSignedOut, nil)
	return nil
}

func (c *Client) Events() <-chan domain.AuthEvent {
	return c.events
}

// Close releases the subscription and stops the refresh loop. Safe to call
// more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.stopRefresh != nil {
		close(c.stopRefresh)
		c.stopRefresh = nil
	}
	close(c.events)
	return nil
}

// startRefreshLoop launches the background token re-issue loop for the
// current session. At most one loop runs per client.
func (c *Client) startRefreshLoop() {
	interval := c.p.opts.TokenRefreshInterval
	if interval <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.stopRefresh != nil {
		return
	}
	stop := make(chan struct{})
	c.stopRefresh = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.refresh()
			}
		}
	}()
}

// refresh renews the current session in place and emits token-refreshed.
// Failures are logged only; the next tick tries again.
func (c *Client) refresh() {
	c.mu.Lock()
	session := c.current
	c.mu.Unlock()
	if session == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	renewed, err := c.p.renewSession(ctx, c.consoleID, session)
	if err != nil {
		c.p.log.Warn().Err(err).Str("console", c.consoleID).Msg("token refresh failed")
		return
	}

	c.mu.Lock()
	if c.current != nil && c.current.ID == renewed.ID {
		c.current = renewed
	}
	c.mu.Unlock()

	c.emit(domain.AuthTokenRefreshed, renewed)
}

// emit delivers an event without ever blocking the caller. When the
// buffer is full the event is dropped and logged; the console's next
// snapshot converges regardless.
func (c *Client) emit(kind domain.AuthEventKind, session *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	metrics.AuthEventsTotal.WithLabelValues(string(kind)).Inc()
	select {
	case c.events <- domain.AuthEvent{Kind: kind, Session: session}:
	default:
		c.p.log.Warn().Str("console", c.consoleID).Str("kind", string(kind)).Msg("auth event dropped, subscriber lagging")
	}
}
