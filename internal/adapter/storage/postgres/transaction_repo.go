package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"psp-reconciler/internal/core/domain"
	"psp-reconciler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const txColumnList = `id, psp_transaction_id, order_id, order_transaction_id, customer_id, payment_method_id,
		amount, currency, comment, dispatch_id, local_status, last_error, created_at, updated_at`

// TransactionRepo implements ports.TransactionRepository over psp_transactions.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new record. A second record for the same order
// transaction is rejected with apperror PAY_003.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO psp_transactions (` + txColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.PSPTransactionID, t.OrderID, t.OrderTransactionID, t.CustomerID, t.PaymentMethodID,
		t.Amount, t.Currency, t.Comment, t.DispatchID, t.LocalStatus, t.LastError,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.ErrDuplicateTransaction()
		}
		return fmt.Errorf("insert psp transaction: %w", err)
	}
	return nil
}

// GetByID fetches a record by internal id.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM psp_transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// FindByOrderID fetches the newest record of an order.
func (r *TransactionRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + txColumnList + ` FROM psp_transactions WHERE order_id = $1
		ORDER BY created_at DESC LIMIT 1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, orderID))
}

// FindByPSPTransactionID fetches the record the PSP knows by pspID.
func (r *TransactionRepo) FindByPSPTransactionID(ctx context.Context, pspID string) (*domain.Transaction, error) {
	if pspID == "" {
		return nil, nil
	}
	query := `SELECT ` + txColumnList + ` FROM psp_transactions WHERE psp_transaction_id = $1
		ORDER BY created_at DESC LIMIT 1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, pspID))
}

// UpdateStatus writes the local status. Amount and currency are never touched.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LocalStatus) error {
	query := `UPDATE psp_transactions SET local_status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update psp transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("psp transaction not found: %s", id)
	}
	return nil
}

func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.PSPTransactionID, &t.OrderID, &t.OrderTransactionID, &t.CustomerID, &t.PaymentMethodID,
		&t.Amount, &t.Currency, &t.Comment, &t.DispatchID, &t.LocalStatus, &t.LastError,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan psp transaction: %w", err)
	}
	return t, nil
}
