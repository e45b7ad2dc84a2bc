package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecostation/monitoring-console/internal/api/metrics"
	"github.com/ecostation/monitoring-console/internal/core/ports"
	"github.com/ecostation/monitoring-console/internal/core/service"
)

// DataHandler serves the raw-data table and its CSV export.
type DataHandler struct {
	repo ports.ClassificationRepository
}

func NewDataHandler(repo ports.ClassificationRepository) *DataHandler {
	return &DataHandler{repo: repo}
}

// List returns classification readings, newest first.
//
// @Summary      List classification readings
// @Tags         data
// @Produce      json
// @Param        tipo   query  string  false  "Filter by material type"
// @Param        limit  query  int     false  "Max rows"
// @Success      200  {object}  map[string]any
// @Router       /data/clasificaciones [get]
func (h *DataHandler) List(c echo.Context) error {
	filter := ports.ListClassificationsFilter{
		TipoResiduo: c.QueryParam("tipo"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		}
		filter.Limit = n
	}

	rows, err := h.repo.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total": len(rows),
		"rows":  rows,
	})
}

// Export streams the current result set as CSV with the fixed header row.
//
// @Summary      Download classification readings as CSV
// @Tags         data
// @Produce      text/csv
// @Param        tipo  query  string  false  "Filter by material type"
// @Success      200  {string}  string  "CSV payload"
// @Router       /data/clasificaciones/export [get]
func (h *DataHandler) Export(c echo.Context) error {
	rows, err := h.repo.List(c.Request().Context(), ports.ListClassificationsFilter{
		TipoResiduo: c.QueryParam("tipo"),
	})
	if err != nil {
		return err
	}

	filename := service.ExportFilename(time.Now())
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := service.WriteCSV(c.Response(), rows); err != nil {
		return err
	}
	metrics.CSVExportsTotal.Inc()
	return nil
}
