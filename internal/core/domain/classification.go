package domain

import "time"

// Classification is a single reading produced by the sorting station: the
// predicted material, the model's confidence and the ambient sensor values
// captured alongside it.
type Classification struct {
	ID          string    `json:"id"`
	StationID   string    `json:"station_id"`
	Fecha       string    `json:"fecha"`
	Hora        string    `json:"hora"`
	TipoResiduo string    `json:"tipo_residuo"`
	Estado      string    `json:"estado"`
	Confianza   float64   `json:"confianza"`
	Humedad     float64   `json:"humedad"`
	HumoPPM     float64   `json:"humo_ppm"`
	Timestamp   int64     `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
}
