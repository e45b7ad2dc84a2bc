package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ecostation/monitoring-console/internal/api/console"
	"github.com/ecostation/monitoring-console/internal/api/metrics"
	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// consoleCookieName identifies a browser console across requests. The
// cookie carries no auth on its own; the session lives server-side keyed
// by this id.
const consoleCookieName = "estacion_console"

// ResolveConsoleID returns the request's console id, minting a fresh one
// (and setting the cookie) on first contact.
func ResolveConsoleID(c echo.Context) string {
	if ck, err := c.Cookie(consoleCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     consoleCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// ConsoleHandler exposes the session controller to the UI: the resolved
// state snapshot and the navigation surface.
type ConsoleHandler struct {
	registry *console.Registry
}

func NewConsoleHandler(registry *console.Registry) *ConsoleHandler {
	return &ConsoleHandler{registry: registry}
}

// State bootstraps (or resumes) the console and returns the resolved
// screen plus the auth snapshot.
//
// @Summary      Current console state
// @Tags         console
// @Produce      json
// @Success      200  {object}  service.ConsoleState
// @Router       /console/state [get]
func (h *ConsoleHandler) State(c echo.Context) error {
	cons := h.registry.Get(ResolveConsoleID(c))
	return c.JSON(http.StatusOK, cons.Ctrl.Snapshot())
}

type navigateRequest struct {
	View string `json:"view" validate:"required"`
}

// Navigate sets the active view and returns the resulting snapshot. The
// router's access guard applies: anonymous consoles are redirected to
// welcome, non-admins asking for admin resolve to access-denied.
//
// @Summary      Navigate the console to a view
// @Tags         console
// @Accept       json
// @Produce      json
// @Param        body  body      navigateRequest  true  "Target view"
// @Success      200   {object}  service.ConsoleState
// @Failure      400   {object}  map[string]string
// @Router       /console/navigate [post]
func (h *ConsoleHandler) Navigate(c echo.Context) error {
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	view, err := domain.ParseView(req.View)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	cons := h.registry.Get(ResolveConsoleID(c))
	cons.Ctrl.NavigateTo(view)
	metrics.ViewNavigationsTotal.WithLabelValues(string(view)).Inc()

	return c.JSON(http.StatusOK, cons.Ctrl.Snapshot())
}
