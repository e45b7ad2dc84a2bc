package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/core/ports"
)

type stubDedup struct {
	dup     bool
	isErr   error
	markErr error
	marked  int
}

func (d *stubDedup) IsDuplicate(context.Context, string, int64) (bool, error) {
	return d.dup, d.isErr
}

func (d *stubDedup) Mark(context.Context, string, int64) error {
	d.marked++
	return d.markErr
}

func testReading() ports.ReadingInput {
	return ports.ReadingInput{
		StationID:   "est-01",
		Fecha:       "2026-08-31",
		Hora:        "14:05:00",
		TipoResiduo: "plastico",
		Estado:      "procesado",
		Confianza:   0.92,
		Humedad:     40.5,
		HumoPPM:     12,
		Timestamp:   1756648800,
	}
}

func TestIngest_ProcessPersistsReading(t *testing.T) {
	repo := &stubClassificationRepo{}
	dedup := &stubDedup{}
	svc := NewIngestService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), testReading()); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.inserted))
	}
	row := repo.inserted[0]
	if row.ID == "" {
		t.Fatalf("reading must get a generated id")
	}
	if row.StationID != "est-01" || row.TipoResiduo != "plastico" || row.Timestamp != 1756648800 {
		t.Fatalf("reading fields lost: %+v", row)
	}
	if row.CreatedAt.IsZero() {
		t.Fatalf("created_at must be stamped")
	}
	if dedup.marked != 1 {
		t.Fatalf("dedup key not set")
	}
}

func TestIngest_ProcessSkipsDuplicate(t *testing.T) {
	repo := &stubClassificationRepo{}
	svc := NewIngestService(repo, &stubDedup{dup: true}, zerolog.Nop())

	if err := svc.Process(context.Background(), testReading()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("duplicate readings must not be persisted")
	}
}

func TestIngest_DedupFailsOpen(t *testing.T) {
	repo := &stubClassificationRepo{}
	dedup := &stubDedup{isErr: errors.New("redis down")}
	svc := NewIngestService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), testReading()); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("dedup outage must not drop readings")
	}
}

func TestIngest_InsertFailureSurfaces(t *testing.T) {
	repo := &stubClassificationRepo{insertErr: errors.New("write concern")}
	svc := NewIngestService(repo, &stubDedup{}, zerolog.Nop())

	if err := svc.Process(context.Background(), testReading()); err == nil {
		t.Fatalf("expected insert failure to surface")
	}
}
