package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecostation/monitoring-console/internal/core/ports"
)

// AdminHandler serves the user-management screen. Routes are mounted
// behind the admin RBAC middleware.
type AdminHandler struct {
	profiles ports.ProfileRepository
}

func NewAdminHandler(profiles ports.ProfileRepository) *AdminHandler {
	return &AdminHandler{profiles: profiles}
}

// ListUsuarios returns every registered profile, newest registration first.
//
// @Summary      List registered users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /admin/usuarios [get]
func (h *AdminHandler) ListUsuarios(c echo.Context) error {
	usuarios, err := h.profiles.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total":    len(usuarios),
		"usuarios": usuarios,
	})
}
