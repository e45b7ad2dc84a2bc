package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

type stubAuthClient struct {
	mu        sync.Mutex
	sessionFn func(ctx context.Context) (*domain.Session, error)
	events    chan domain.AuthEvent
	signOuts  int
	closeOnce sync.Once
}

func newStubAuthClient(sessionFn func(ctx context.Context) (*domain.Session, error)) *stubAuthClient {
	if sessionFn == nil {
		sessionFn = func(context.Context) (*domain.Session, error) { return nil, nil }
	}
	return &stubAuthClient{
		sessionFn: sessionFn,
		events:    make(chan domain.AuthEvent, 16),
	}
}

func (s *stubAuthClient) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return s.sessionFn(ctx)
}

func (s *stubAuthClient) SignInWithPassword(context.Context, string, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthClient) SignUp(context.Context, string, string, string) (*domain.Session, error) {
	return nil, nil
}

func (s *stubAuthClient) SignOut(context.Context) error {
	s.mu.Lock()
	s.signOuts++
	s.mu.Unlock()
	s.events <- domain.AuthEvent{Kind: domain.AuthSignedOut}
	return nil
}

func (s *stubAuthClient) Events() <-chan domain.AuthEvent { return s.events }

func (s *stubAuthClient) Close() error {
	s.closeOnce.Do(func() { close(s.events) })
	return nil
}

type stubSyncer struct {
	mu      sync.Mutex
	ensured []string
	stamped []string
	profile *domain.UserProfile
}

func (s *stubSyncer) EnsureProfile(_ context.Context, email string) *domain.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensured = append(s.ensured, email)
	return s.profile
}

func (s *stubSyncer) StampLastAccess(_ context.Context, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamped = append(s.stamped, email)
}

func (s *stubSyncer) ensureCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ensured)
}

func testSession(email string) *domain.Session {
	return &domain.Session{
		ID:        "sess-" + email,
		Subject:   "sub-" + email,
		Email:     email,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func newTestController(client *stubAuthClient, syncer *stubSyncer, opts ControllerOptions) *Controller {
	if syncer == nil {
		syncer = &stubSyncer{}
	}
	opts.Logger = zerolog.Nop()
	return NewController(client, syncer, opts)
}

func TestController_InitializeNoSession(t *testing.T) {
	client := newStubAuthClient(nil)
	ctrl := newTestController(client, nil, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())

	snap := ctrl.Snapshot()
	if snap.View != domain.ViewWelcome {
		t.Fatalf("expected welcome, got %s", snap.View)
	}
	if !snap.AuthChecked {
		t.Fatalf("expected authChecked true")
	}
	if snap.User != nil {
		t.Fatalf("expected no cached user")
	}
}

func TestController_InitializeWithSession(t *testing.T) {
	sess := testSession("jane@x.com")
	client := newStubAuthClient(func(context.Context) (*domain.Session, error) {
		return sess, nil
	})
	syncer := &stubSyncer{}
	ctrl := newTestController(client, syncer, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())

	snap := ctrl.Snapshot()
	if snap.View != domain.ViewDashboard {
		t.Fatalf("expected dashboard, got %s", snap.View)
	}
	if snap.User == nil || snap.User.Email != "jane@x.com" {
		t.Fatalf("unexpected cached user: %+v", snap.User)
	}
	waitFor(t, func() bool { return syncer.ensureCalls() > 0 })
}

func TestController_InitializeLookupError(t *testing.T) {
	client := newStubAuthClient(func(context.Context) (*domain.Session, error) {
		return nil, context.DeadlineExceeded
	})
	ctrl := newTestController(client, nil, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())

	snap := ctrl.Snapshot()
	if snap.View != domain.ViewWelcome || !snap.AuthChecked {
		t.Fatalf("lookup failure must land on welcome with authChecked, got %+v", snap)
	}
}

// A lookup that outlives its timeout must not lose a real session: the
// late resolution re-enters through the event path.
func TestController_LateLookupResolution(t *testing.T) {
	release := make(chan struct{})
	sess := testSession("late@x.com")
	client := newStubAuthClient(func(ctx context.Context) (*domain.Session, error) {
		<-release
		return sess, nil
	})
	ctrl := newTestController(client, &stubSyncer{}, ControllerOptions{SessionCheckTimeout: 30 * time.Millisecond})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())

	snap := ctrl.Snapshot()
	if snap.View != domain.ViewWelcome || !snap.AuthChecked {
		t.Fatalf("timeout must land on welcome with authChecked, got %+v", snap)
	}

	close(release)
	waitFor(t, func() bool { return ctrl.Snapshot().View == domain.ViewDashboard })

	snap = ctrl.Snapshot()
	if snap.User == nil || snap.User.Email != "late@x.com" {
		t.Fatalf("late session not applied: %+v", snap.User)
	}
}

// The subscription's first event may beat the initial lookup; an empty
// lookup result must not undo an authentication already applied.
func TestController_EventBeforeLookupResolves(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := newStubAuthClient(func(ctx context.Context) (*domain.Session, error) {
		close(started)
		<-release
		return nil, nil
	})
	ctrl := newTestController(client, &stubSyncer{}, ControllerOptions{})
	defer ctrl.Close()

	done := make(chan struct{})
	go func() {
		ctrl.Initialize(context.Background())
		close(done)
	}()
	<-started

	client.events <- domain.AuthEvent{Kind: domain.AuthSignedIn, Session: testSession("fast@x.com")}
	waitFor(t, func() bool { return ctrl.Snapshot().View == domain.ViewDashboard })

	close(release)
	<-done

	snap := ctrl.Snapshot()
	if snap.View != domain.ViewDashboard {
		t.Fatalf("empty lookup clobbered an applied sign-in: %s", snap.View)
	}
	if snap.User == nil || snap.User.Email != "fast@x.com" {
		t.Fatalf("cached user lost: %+v", snap.User)
	}
	if !snap.AuthChecked {
		t.Fatalf("expected authChecked true")
	}
}

func TestController_OnAuthenticatedIdempotent(t *testing.T) {
	client := newStubAuthClient(nil)
	syncer := &stubSyncer{}
	ctrl := newTestController(client, syncer, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())

	sess := testSession("dup@x.com")
	ctrl.OnAuthEvent(domain.AuthSignedIn, sess)
	first := ctrl.Snapshot()

	ctrl.OnAuthEvent(domain.AuthSignedIn, sess)
	second := ctrl.Snapshot()

	if first.View != second.View || *first.User != *second.User {
		t.Fatalf("re-applying the same session changed state: %+v vs %+v", first, second)
	}
	waitFor(t, func() bool { return syncer.ensureCalls() == 2 })
}

func TestController_TokenRefreshKeepsView(t *testing.T) {
	client := newStubAuthClient(nil)
	syncer := &stubSyncer{profile: &domain.UserProfile{Email: "op@x.com", TipoUsuario: domain.RoleAdmin, Activo: true}}
	ctrl := newTestController(client, syncer, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())
	ctrl.OnAuthEvent(domain.AuthSignedIn, testSession("op@x.com"))
	waitFor(t, func() bool { return ctrl.Snapshot().Profile != nil })

	ctrl.NavigateTo(domain.ViewAdmin)
	if got := ctrl.Snapshot().Screen; got != domain.ViewAdmin {
		t.Fatalf("admin should render admin, got %s", got)
	}

	refreshed := testSession("op@x.com")
	refreshed.ExpiresAt = time.Now().Add(2 * time.Hour)
	ctrl.OnAuthEvent(domain.AuthTokenRefreshed, refreshed)

	if got := ctrl.Snapshot().View; got != domain.ViewAdmin {
		t.Fatalf("token refresh yanked the view to %s", got)
	}
}

func TestController_SignedOutForcesWelcome(t *testing.T) {
	client := newStubAuthClient(nil)
	ctrl := newTestController(client, nil, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())
	ctrl.OnAuthEvent(domain.AuthSignedIn, testSession("out@x.com"))
	ctrl.NavigateTo(domain.ViewData)

	ctrl.OnAuthEvent(domain.AuthSignedOut, nil)

	snap := ctrl.Snapshot()
	if snap.View != domain.ViewWelcome || snap.User != nil || snap.Profile != nil {
		t.Fatalf("sign-out must clear caches and land on welcome: %+v", snap)
	}
}

func TestController_LogoutDelegatesToEvent(t *testing.T) {
	client := newStubAuthClient(nil)
	ctrl := newTestController(client, nil, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())
	ctrl.OnAuthEvent(domain.AuthSignedIn, testSession("bye@x.com"))

	ctrl.Logout(context.Background())

	if client.signOuts != 1 {
		t.Fatalf("expected one sign-out request, got %d", client.signOuts)
	}
	// The view transition arrives via the signed-out event the stub emits.
	waitFor(t, func() bool { return ctrl.Snapshot().View == domain.ViewWelcome })
}

func TestController_NavigationGuard(t *testing.T) {
	client := newStubAuthClient(nil)
	ctrl := newTestController(client, nil, ControllerOptions{})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())

	ctrl.NavigateTo(domain.ViewData)
	if got := ctrl.Snapshot().View; got != domain.ViewWelcome {
		t.Fatalf("anonymous console navigated to protected view %s", got)
	}

	ctrl.NavigateTo(domain.ViewLogin)
	if got := ctrl.Snapshot().View; got != domain.ViewLogin {
		t.Fatalf("public views must stay reachable, got %s", got)
	}
}

func TestController_IsAdmin(t *testing.T) {
	cases := []struct {
		name    string
		profile *domain.UserProfile
		email   string
		seed    string
		want    bool
	}{
		{"profile admin", &domain.UserProfile{TipoUsuario: domain.RoleAdmin}, "who@x.com", "seed@x.com", true},
		{"seed email fallback", nil, "seed@x.com", "seed@x.com", true},
		{"seed email case-insensitive", nil, "Seed@X.com", "seed@x.com", true},
		{"plain user", &domain.UserProfile{TipoUsuario: domain.RoleUser}, "who@x.com", "seed@x.com", false},
		{"null profile, no match", nil, "who@x.com", "seed@x.com", false},
		{"no seed configured", nil, "who@x.com", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newStubAuthClient(nil)
			syncer := &stubSyncer{profile: tc.profile}
			ctrl := newTestController(client, syncer, ControllerOptions{SeedAdminEmail: tc.seed})
			defer ctrl.Close()

			ctrl.Initialize(context.Background())
			ctrl.OnAuthEvent(domain.AuthSignedIn, testSession(tc.email))
			if tc.profile != nil {
				waitFor(t, func() bool { return ctrl.Snapshot().Profile != nil })
			} else {
				waitFor(t, func() bool { return syncer.ensureCalls() > 0 })
			}

			if got := ctrl.IsAdmin(); got != tc.want {
				t.Fatalf("IsAdmin = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestController_AdminViewAccessDenied(t *testing.T) {
	client := newStubAuthClient(nil)
	ctrl := newTestController(client, &stubSyncer{}, ControllerOptions{SeedAdminEmail: "seed@x.com"})
	defer ctrl.Close()

	ctrl.Initialize(context.Background())
	ctrl.OnAuthEvent(domain.AuthSignedIn, testSession("plain@x.com"))

	ctrl.NavigateTo(domain.ViewAdmin)
	if got := ctrl.Snapshot().Screen; got != domain.ViewAccessDenied {
		t.Fatalf("non-admin admin view must resolve to access-denied, got %s", got)
	}

	// The placeholder's single recovery action.
	ctrl.NavigateTo(domain.ViewDashboard)
	if got := ctrl.Snapshot().Screen; got != domain.ViewDashboard {
		t.Fatalf("recovery navigation failed, got %s", got)
	}
}

func TestResolveScreen(t *testing.T) {
	cases := []struct {
		name        string
		view        domain.View
		hasUser     bool
		authChecked bool
		isAdmin     bool
		want        domain.View
	}{
		{"pre-check is loading", domain.ViewDashboard, false, false, false, domain.ViewLoading},
		{"anonymous protected coerced", domain.ViewData, false, true, false, domain.ViewWelcome},
		{"anonymous stale admin coerced", domain.ViewAdmin, false, true, false, domain.ViewWelcome},
		{"anonymous public kept", domain.ViewLogin, false, true, false, domain.ViewLogin},
		{"admin without rights", domain.ViewAdmin, true, true, false, domain.ViewAccessDenied},
		{"admin with rights", domain.ViewAdmin, true, true, true, domain.ViewAdmin},
		{"authenticated passthrough", domain.ViewPowerBI, true, true, false, domain.ViewPowerBI},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveScreen(tc.view, tc.hasUser, tc.authChecked, tc.isAdmin); got != tc.want {
				t.Fatalf("resolveScreen = %s, want %s", got, tc.want)
			}
		})
	}
}
