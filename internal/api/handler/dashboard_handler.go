package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecostation/monitoring-console/internal/core/service"
)

// DashboardHandler serves the stats tab and the embedded BI panel config.
type DashboardHandler struct {
	stats           *service.StatsService
	powerBIEmbedURL string
}

func NewDashboardHandler(stats *service.StatsService, powerBIEmbedURL string) *DashboardHandler {
	return &DashboardHandler{stats: stats, powerBIEmbedURL: powerBIEmbedURL}
}

// Stats returns the dashboard aggregates.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardStats
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	st, err := h.stats.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

type powerBIResponse struct {
	Title    string   `json:"title"`
	EmbedURL string   `json:"embed_url"`
	Features []string `json:"features"`
}

// PowerBI returns the fixed iframe configuration of the externally hosted
// report. The report itself is opaque to this system.
//
// @Summary      Power BI panel configuration
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  powerBIResponse
// @Router       /dashboard/powerbi [get]
func (h *DashboardHandler) PowerBI(c echo.Context) error {
	return c.JSON(http.StatusOK, powerBIResponse{
		Title:    "Dashboard de Power BI",
		EmbedURL: h.powerBIEmbedURL,
		Features: []string{
			"Visualizaciones interactivas en tiempo real",
			"Filtros y segmentaciones de datos",
			"Métricas clave de clasificación",
			"Análisis temporal y comparativo",
		},
	})
}
