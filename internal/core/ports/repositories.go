package ports

import (
	"context"

	"psp-reconciler/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// TransactionRepository defines persistence operations for local transaction records.
// Finders return nil, nil when no record matches.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Transaction, error)
	FindByPSPTransactionID(ctx context.Context, pspTransactionID string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LocalStatus) error
}
