package ports

import "context"

// ReadingInput is the DTO the station hardware posts for each
// classification reading.
type ReadingInput struct {
	StationID   string
	Fecha       string
	Hora        string
	TipoResiduo string
	Estado      string
	Confianza   float64
	Humedad     float64
	HumoPPM     float64
	Timestamp   int64
}

// IngestService persists incoming station readings.
type IngestService interface {
	Process(ctx context.Context, reading ReadingInput) error
}
