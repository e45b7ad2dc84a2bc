package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/api/console"
	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

// fakeAuthClient stands in for the provider-backed client in handler
// tests. Sign-in and sign-up outcomes are scripted per test.
type fakeAuthClient struct {
	mu         sync.Mutex
	session    *domain.Session
	signInErr  error
	signUpSess *domain.Session
	signUpErr  error
	events     chan domain.AuthEvent
	closeOnce  sync.Once
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{events: make(chan domain.AuthEvent, 16)}
}

func (f *fakeAuthClient) CurrentSession(context.Context) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeAuthClient) SignInWithPassword(_ context.Context, email, _ string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	s := &domain.Session{
		ID:          "sess-1",
		Subject:     "user-1",
		Email:       email,
		AccessToken: "tok-1",
		IssuedAt:    time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	f.events <- domain.AuthEvent{Kind: domain.AuthSignedIn, Session: s}
	return s, nil
}

func (f *fakeAuthClient) SignUp(context.Context, string, string, string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signUpSess, f.signUpErr
}

func (f *fakeAuthClient) SignOut(context.Context) error {
	f.events <- domain.AuthEvent{Kind: domain.AuthSignedOut}
	return nil
}

func (f *fakeAuthClient) Events() <-chan domain.AuthEvent { return f.events }

func (f *fakeAuthClient) Close() error {
	f.closeOnce.Do(func() { close(f.events) })
	return nil
}

type noopSyncer struct{}

func (noopSyncer) EnsureProfile(context.Context, string) *domain.UserProfile { return nil }
func (noopSyncer) StampLastAccess(context.Context, string)                   {}

func newTestRegistry(t *testing.T, client ports.AuthClient) *console.Registry {
	t.Helper()
	r := console.NewRegistry(func(string) ports.AuthClient { return client }, noopSyncer{}, console.Options{
		SeedAdminEmail: "seed@x.com",
		Logger:         zerolog.Nop(),
	})
	t.Cleanup(r.Close)
	return r
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: "estacion_console", Value: "console-test"})
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	client := newFakeAuthClient()
	h := NewAuthHandler(newTestRegistry(t, client))

	rec := doJSON(t, h.Login, http.MethodPost, "/auth/login", `{"email":"jane@x.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["token"] != "tok-1" {
		t.Fatalf("token = %v", body["token"])
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "jane@x.com" {
		t.Fatalf("user = %v", body["user"])
	}
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	client := newFakeAuthClient()
	client.signInErr = domain.ErrInvalidCredentials
	h := NewAuthHandler(newTestRegistry(t, client))

	rec := doJSON(t, h.Login, http.MethodPost, "/auth/login", `{"email":"jane@x.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Email o contraseña incorrectos" {
		t.Fatalf("error message = %v", body["error"])
	}
}

func TestAuthHandler_LoginEmailNotConfirmed(t *testing.T) {
	client := newFakeAuthClient()
	client.signInErr = domain.ErrEmailNotConfirmed
	h := NewAuthHandler(newTestRegistry(t, client))

	rec := doJSON(t, h.Login, http.MethodPost, "/auth/login", `{"email":"jane@x.com","password":"secret"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Debes confirmar tu correo electrónico" {
		t.Fatalf("error message = %v", body["error"])
	}
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	h := NewAuthHandler(newTestRegistry(t, newFakeAuthClient()))

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"secret"}`},
		{"malformed email", `{"email":"not-an-email","password":"secret"}`},
		{"missing password", `{"email":"jane@x.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.Login, http.MethodPost, "/auth/login", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
		})
	}
}

func TestAuthHandler_RegisterPasswordMismatch(t *testing.T) {
	h := NewAuthHandler(newTestRegistry(t, newFakeAuthClient()))

	rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"jane@x.com","password":"secret1","confirm_password":"secret2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Las contraseñas no coinciden" {
		t.Fatalf("error message = %v", body["error"])
	}
}

func TestAuthHandler_RegisterConfirmationRequired(t *testing.T) {
	// A nil session from sign-up means the account awaits email
	// confirmation.
	h := NewAuthHandler(newTestRegistry(t, newFakeAuthClient()))

	rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"jane@x.com","password":"secret1","confirm_password":"secret1","nombre":"Jane"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "Revisa tu correo para confirmar la cuenta" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestAuthHandler_RegisterUserExists(t *testing.T) {
	client := newFakeAuthClient()
	client.signUpErr = domain.ErrUserExists
	h := NewAuthHandler(newTestRegistry(t, client))

	rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
		`{"email":"jane@x.com","password":"secret1","confirm_password":"secret1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "El usuario ya existe" {
		t.Fatalf("error message = %v", body["error"])
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	client := newFakeAuthClient()
	registry := newTestRegistry(t, client)
	h := NewAuthHandler(registry)

	rec := doJSON(t, h.Logout, http.MethodPost, "/auth/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
