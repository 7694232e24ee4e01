package ports

import (
	"context"
	"time"

	"psp-reconciler/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// --- Collaborator Ports ---

// PSPClient fetches the PSP-side state of a transaction.
// Failures are *domain.PSPError; implementations must bound every call with a timeout.
type PSPClient interface {
	GetSnapshot(ctx context.Context, pspTransactionID string) (*domain.Snapshot, error)
}

// OrderStateDriver applies business transitions to order transactions.
// Implementations return *domain.TransitionError when the order state refuses the
// transition, and must report a repeat of an applied transition as AlreadyApplied
// rather than changing state again.
type OrderStateDriver interface {
	Apply(ctx context.Context, orderTransactionID uuid.UUID, transition domain.Transition) error
}

// KeyLocker serializes work per key. The returned unlock func is safe to call once.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventPublisher emits reconciliation outcomes for downstream alerting.
type EventPublisher interface {
	PublishReconciled(ctx context.Context, event domain.ReconciliationEvent) error
}

// TokenService handles JWT token operations for admin callers.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// --- Service Ports (Business Logic) ---

// ReconciliationService is the reconciliation engine exposed to transports.
type ReconciliationService interface {
	RecordInitialAttempt(ctx context.Context, req InitialAttempt) (*domain.Transaction, error)
	Reconcile(ctx context.Context, transaction *domain.Transaction, fromNotification bool) ReconcileResult
	HandleNotification(ctx context.Context, pspTransactionID string) ReconcileResult
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Transaction, error)
	ReconcileByID(ctx context.Context, id uuid.UUID) (ReconcileResult, error)
	ReconcileByOrderID(ctx context.Context, orderID uuid.UUID) (ReconcileResult, error)
}

// InitialAttempt holds validated input for recording a payment attempt.
type InitialAttempt struct {
	OrderID            uuid.UUID
	OrderTransactionID uuid.UUID
	CustomerID         uuid.UUID
	PaymentMethodID    int
	Amount             decimal.Decimal
	Currency           string
	Comment            string
	DispatchID         string
	PSPTransactionID   string
	Failure            error // initiation failure to keep for audit, nil on success
}

// ReconcileResult is the structured outcome of a reconciliation call.
// Message is for humans; automated callers should branch on Outcome.
type ReconcileResult struct {
	Outcome       domain.Outcome     `json:"outcome"`
	Message       string             `json:"message"`
	LocalStatus   domain.LocalStatus `json:"local_status"`
	Transition    domain.Transition  `json:"transition,omitempty"`
	Applied       bool               `json:"applied"` // the order transition was accepted
	StatusWritten bool               `json:"status_written"`
	Warning       string             `json:"warning,omitempty"`
}
