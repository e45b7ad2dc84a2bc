package service

import (
	"context"
	"math"
	"testing"

	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

type stubClassificationRepo struct {
	rows      []*domain.Classification
	counts    map[string]int64
	listErr   error
	insertErr error
	countErr  error

	inserted   []*domain.Classification
	lastFilter ports.ListClassificationsFilter
}

func (r *stubClassificationRepo) List(_ context.Context, filter ports.ListClassificationsFilter) ([]*domain.Classification, error) {
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.rows, nil
}

func (r *stubClassificationRepo) Insert(_ context.Context, c *domain.Classification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, c)
	return nil
}

func (r *stubClassificationRepo) CountByTipo(context.Context) (map[string]int64, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	return r.counts, nil
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStatsService_Stats(t *testing.T) {
	repo := &stubClassificationRepo{
		counts: map[string]int64{"plastico": 3, "organico": 2},
		rows: []*domain.Classification{
			{ID: "r2", TipoResiduo: "plastico", Confianza: 0.9, Humedad: 50, HumoPPM: 10},
			{ID: "r1", TipoResiduo: "organico", Confianza: 0.7, Humedad: 30, HumoPPM: 20},
		},
	}
	svc := NewStatsService(repo)

	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if st.TotalReadings != 5 {
		t.Fatalf("total = %d", st.TotalReadings)
	}
	if st.DistinctTipos != 2 {
		t.Fatalf("distinct tipos = %d", st.DistinctTipos)
	}
	if st.CountsByTipo["plastico"] != 3 {
		t.Fatalf("plastico count = %d", st.CountsByTipo["plastico"])
	}
	if !almostEqual(st.AvgConfianza, 0.8) || !almostEqual(st.AvgHumedad, 40) || !almostEqual(st.AvgHumoPPM, 15) {
		t.Fatalf("averages = %v %v %v", st.AvgConfianza, st.AvgHumedad, st.AvgHumoPPM)
	}
	if st.LatestReading == nil || st.LatestReading.ID != "r2" {
		t.Fatalf("latest reading = %+v", st.LatestReading)
	}
	if repo.lastFilter.Limit != statsSampleSize {
		t.Fatalf("sample limit = %d", repo.lastFilter.Limit)
	}
}

func TestStatsService_StatsEmpty(t *testing.T) {
	repo := &stubClassificationRepo{counts: map[string]int64{}}
	svc := NewStatsService(repo)

	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalReadings != 0 || st.LatestReading != nil || st.AvgConfianza != 0 {
		t.Fatalf("empty collection must yield zeroed stats: %+v", st)
	}
}
