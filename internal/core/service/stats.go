package service

import (
	"context"
	"fmt"

	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

// statsSampleSize caps how many recent readings feed the averaged figures.
const statsSampleSize = 500

// DashboardStats is the aggregate view backing the stats tab.
type DashboardStats struct {
	TotalReadings  int64                  `json:"total_readings"`
	CountsByTipo   map[string]int64       `json:"counts_by_tipo"`
	DistinctTipos  int                    `json:"distinct_tipos"`
	AvgConfianza   float64                `json:"avg_confianza"`
	AvgHumedad     float64                `json:"avg_humedad"`
	AvgHumoPPM     float64                `json:"avg_humo_ppm"`
	LatestReading  *domain.Classification `json:"latest_reading,omitempty"`
}

// StatsService computes dashboard aggregates over the clasificaciones
// collection.
type StatsService struct {
	repo ports.ClassificationRepository
}

func NewStatsService(repo ports.ClassificationRepository) *StatsService {
	return &StatsService{repo: repo}
}

// Stats builds the dashboard aggregate. Counts come from the repository;
// the averages are computed over a bounded sample of the most recent
// readings.
func (s *StatsService) Stats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.repo.CountByTipo(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: count by tipo: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	recent, err := s.repo.List(ctx, ports.ListClassificationsFilter{Limit: statsSampleSize})
	if err != nil {
		return nil, fmt.Errorf("stats: list recent: %w", err)
	}

	st := &DashboardStats{
		TotalReadings: total,
		CountsByTipo:  counts,
		DistinctTipos: len(counts),
	}
	if len(recent) == 0 {
		return st, nil
	}

	var conf, hum, humo float64
	for _, r := range recent {
		conf += r.Confianza
		hum += r.Humedad
		humo += r.HumoPPM
	}
	n := float64(len(recent))
	st.AvgConfianza = conf / n
	st.AvgHumedad = hum / n
	st.AvgHumoPPM = humo / n
	st.LatestReading = recent[0]
	return st, nil
}
