package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecostation/monitoring-console/internal/api/console"
	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// AuthHandler exposes the thin auth forms: collect credentials, delegate
// to the console's auth client, and surface failures as inline messages.
// It never mutates view state itself — the controller reacts to the auth
// events the calls produce.
type AuthHandler struct {
	registry *console.Registry
}

func NewAuthHandler(registry *console.Registry) *AuthHandler {
	return &AuthHandler{registry: registry}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Nombre          string `json:"nombre"`
}

type authResponse struct {
	Token   string           `json:"token,omitempty"`
	User    *domain.AuthUser `json:"user,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Inline form messages, shown next to the form that failed.
const (
	msgInvalidCredentials = "Email o contraseña incorrectos"
	msgEmailNotConfirmed  = "Debes confirmar tu correo electrónico"
	msgUserExists         = "El usuario ya existe"
	msgPasswordMismatch   = "Las contraseñas no coinciden"
	msgConfirmationSent   = "Revisa tu correo para confirmar la cuenta"
	msgConnectionError    = "Error de conexión. Intenta de nuevo"
)

// Login authenticates a user on their console's session.
//
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	cons := h.registry.Get(ResolveConsoleID(c))
	session, err := cons.Client.SignInWithPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(authErrorStatus(err), map[string]string{"error": authErrorMessage(err)})
	}

	return c.JSON(http.StatusOK, authResponse{
		Token: session.AccessToken,
		User:  &domain.AuthUser{ID: session.Subject, Email: session.Email},
	})
}

// Register creates a new account on the console's session.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msgPasswordMismatch})
	}

	cons := h.registry.Get(ResolveConsoleID(c))
	session, err := cons.Client.SignUp(c.Request().Context(), req.Email, req.Password, req.Nombre)
	if err != nil {
		return c.JSON(authErrorStatus(err), map[string]string{"error": authErrorMessage(err)})
	}

	if session == nil {
		// Confirmation required: account created, no session yet.
		return c.JSON(http.StatusCreated, authResponse{Message: msgConfirmationSent})
	}
	return c.JSON(http.StatusCreated, authResponse{
		Token: session.AccessToken,
		User:  &domain.AuthUser{ID: session.Subject, Email: session.Email},
	})
}

// Logout requests a provider sign-out; the welcome transition arrives via
// the signed-out event.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cons := h.registry.Get(ResolveConsoleID(c))
	cons.Ctrl.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func authErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return msgInvalidCredentials
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return msgEmailNotConfirmed
	case errors.Is(err, domain.ErrUserExists):
		return msgUserExists
	}
	return msgConnectionError
}
