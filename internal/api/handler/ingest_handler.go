package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecostation/monitoring-console/internal/core/ports"
)

const stationKeyHeader = "X-Station-Key"

// ReadingDispatcher is the enqueue surface of the ingest worker pool.
type ReadingDispatcher interface {
	Enqueue(reading ports.ReadingInput)
	EnqueueBatch(readings []ports.ReadingInput)
}

// IngestHandler accepts classification readings from the station hardware.
type IngestHandler struct {
	dispatcher ReadingDispatcher
	apiKey     string
}

func NewIngestHandler(dispatcher ReadingDispatcher, apiKey string) *IngestHandler {
	return &IngestHandler{dispatcher: dispatcher, apiKey: apiKey}
}

type readingRequest struct {
	StationID   string  `json:"station_id" validate:"required"`
	Fecha       string  `json:"fecha" validate:"required"`
	Hora        string  `json:"hora" validate:"required"`
	TipoResiduo string  `json:"tipo_residuo" validate:"required"`
	Estado      string  `json:"estado" validate:"required"`
	Confianza   float64 `json:"confianza" validate:"gte=0,lte=1"`
	Humedad     float64 `json:"humedad"`
	HumoPPM     float64 `json:"humo_ppm"`
	Timestamp   int64   `json:"timestamp" validate:"required,gt=0"`
}

type ingestResponse struct {
	Accepted int `json:"accepted"`
}

// Lecturas enqueues one or more station readings for persistence.
//
// @Summary      Ingest classification readings
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        X-Station-Key  header  string            true  "Station API key"
// @Param        body           body    []readingRequest  true  "Readings"
// @Success      202  {object}  ingestResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /ingest/lecturas [post]
func (h *IngestHandler) Lecturas(c echo.Context) error {
	key := c.Request().Header.Get(stationKeyHeader)
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid station key")
	}

	var reqs []readingRequest
	if err := c.Bind(&reqs); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if len(reqs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "empty batch"})
	}

	inputs := make([]ports.ReadingInput, 0, len(reqs))
	for _, r := range reqs {
		if err := c.Validate(&r); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		inputs = append(inputs, ports.ReadingInput{
			StationID:   r.StationID,
			Fecha:       r.Fecha,
			Hora:        r.Hora,
			TipoResiduo: r.TipoResiduo,
			Estado:      r.Estado,
			Confianza:   r.Confianza,
			Humedad:     r.Humedad,
			HumoPPM:     r.HumoPPM,
			Timestamp:   r.Timestamp,
		})
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, ingestResponse{Accepted: len(inputs)})
}
