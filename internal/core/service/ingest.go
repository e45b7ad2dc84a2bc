package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecostation/monitoring-console/internal/api/metrics"
	"github.com/ecostation/monitoring-console/internal/core/domain"
	"github.com/ecostation/monitoring-console/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, stationID string, ts int64) (bool, error)
	Mark(ctx context.Context, stationID string, ts int64) error
}

type ingestService struct {
	repo  ports.ClassificationRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewIngestService returns an IngestService implementation.
func NewIngestService(repo ports.ClassificationRepository, dedup DedupChecker, log zerolog.Logger) ports.IngestService {
	return &ingestService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single station reading. The station
// resends readings after connectivity drops, so the dedup check runs
// first; it fails open.
func (s *ingestService) Process(ctx context.Context, in ports.ReadingInput) error {
	isDup, err := s.dedup.IsDuplicate(ctx, in.StationID, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("station", in.StationID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("station", in.StationID).Int64("ts", in.Timestamp).Msg("duplicate reading skipped")
		metrics.ReadingsDedupTotal.WithLabelValues("hit").Inc()
		return nil
	}
	metrics.ReadingsDedupTotal.WithLabelValues("miss").Inc()

	if markErr := s.dedup.Mark(ctx, in.StationID, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("station", in.StationID).Msg("failed to set dedup key")
	}

	c := &domain.Classification{
		ID:          uuid.NewString(),
		StationID:   in.StationID,
		Fecha:       in.Fecha,
		Hora:        in.Hora,
		TipoResiduo: in.TipoResiduo,
		Estado:      in.Estado,
		Confianza:   in.Confianza,
		Humedad:     in.Humedad,
		HumoPPM:     in.HumoPPM,
		Timestamp:   in.Timestamp,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		metrics.ReadingsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("ingest reading: %w", err)
	}

	metrics.ReadingsIngestedTotal.WithLabelValues(in.TipoResiduo).Inc()
	return nil
}
