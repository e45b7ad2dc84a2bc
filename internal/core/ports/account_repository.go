package ports

import (
	"context"

	"github.com/ecostation/monitoring-console/internal/core/domain"
)

// AccountRepository defines persistence for auth credential records.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
