package ports

import (
	"context"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// ListClassificationsFilter carries the query parameters for the data
// table. Zero values mean "no filter".
type ListClassificationsFilter struct {
	TipoResiduo string // optional: exact match on material type
	Limit       int    // optional: max rows (capped by the repository)
}

// ClassificationRepository defines persistence for the clasificaciones
// collection.
type ClassificationRepository interface {
	// List returns readings ordered by created_at descending.
	List(ctx context.Context, filter ListClassificationsFilter) ([]*domain.Classification, error)
	Insert(ctx context.Context, c *domain.Classification) error
	// CountByTipo returns the number of readings per material type.
	CountByTipo(ctx context.Context) (map[string]int64, error)
}
