package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// csvHeader is the fixed header row of every export.
var csvHeader = []string{
	"ID", "Fecha", "Hora", "Tipo Residuo", "Estado",
	"Confianza", "Humedad", "Humo (PPM)", "Timestamp",
}

// ExportFilename returns the download name for an export generated at the
// given time, e.g. datos_clasificacion_2026-08-31.csv.
func ExportFilename(at time.Time) string {
	return fmt.Sprintf("datos_clasificacion_%s.csv", at.Format("2006-01-02"))
}

// WriteCSV streams the rows as comma-separated values with the fixed
// header row.
func WriteCSV(w io.Writer, rows []*domain.Classification) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			r.Fecha,
			r.Hora,
			r.TipoResiduo,
			r.Estado,
			strconv.FormatFloat(r.Confianza, 'f', -1, 64),
			strconv.FormatFloat(r.Humedad, 'f', -1, 64),
			strconv.FormatFloat(r.HumoPPM, 'f', -1, 64),
			strconv.FormatInt(r.Timestamp, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
