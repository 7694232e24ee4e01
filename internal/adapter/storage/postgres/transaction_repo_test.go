package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"psp-reconciler/internal/core/domain"
	"psp-reconciler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction() *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	lastErr := "card declined"
	return &domain.Transaction{
		ID:                 uuid.New(),
		PSPTransactionID:   "EX-1234",
		OrderID:            uuid.New(),
		OrderTransactionID: uuid.New(),
		CustomerID:         uuid.New(),
		PaymentMethodID:    4,
		Amount:             decimal.RequireFromString("49.95"),
		Currency:           "EUR",
		Comment:            "first attempt",
		DispatchID:         "D-77",
		LocalStatus:        domain.LocalStatusUnset,
		LastError:          &lastErr,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func txColumns() []string {
	return []string{"id", "psp_transaction_id", "order_id", "order_transaction_id", "customer_id",
		"payment_method_id", "amount", "currency", "comment", "dispatch_id", "local_status", "last_error",
		"created_at", "updated_at"}
}

func txRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(txColumns()).AddRow(
		t.ID, t.PSPTransactionID, t.OrderID, t.OrderTransactionID, t.CustomerID, t.PaymentMethodID,
		t.Amount, t.Currency, t.Comment, t.DispatchID, t.LocalStatus, t.LastError,
		t.CreatedAt, t.UpdatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectExec("INSERT INTO psp_transactions").
		WithArgs(
			txn.ID, txn.PSPTransactionID, txn.OrderID, txn.OrderTransactionID, txn.CustomerID, txn.PaymentMethodID,
			txn.Amount, txn.Currency, txn.Comment, txn.DispatchID, txn.LocalStatus, txn.LastError,
			txn.CreatedAt, txn.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Create_DuplicateOrderTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectExec("INSERT INTO psp_transactions").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_psp_transactions_order_transaction"})

	err = repo.Create(context.Background(), newTestTransaction())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, "PAY_003"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Create_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectExec("INSERT INTO psp_transactions").WillReturnError(errors.New("connection refused"))

	err = repo.Create(context.Background(), newTestTransaction())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert psp transaction")
	assert.False(t, apperror.HasCode(err, "PAY_003"))
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM psp_transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(txRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.Equal(t, "EX-1234", result.PSPTransactionID)
	assert.True(t, txn.Amount.Equal(result.Amount))
	assert.Equal(t, "card declined", *result.LastError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM psp_transactions WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(txColumns()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_FindByOrderID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM psp_transactions WHERE order_id .+ ORDER BY created_at DESC").
		WithArgs(txn.OrderID).
		WillReturnRows(txRow(txn))

	result, err := repo.FindByOrderID(context.Background(), txn.OrderID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.OrderTransactionID, result.OrderTransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_FindByPSPTransactionID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM psp_transactions WHERE psp_transaction_id").
		WithArgs("EX-1234").
		WillReturnRows(txRow(txn))

	result, err := repo.FindByPSPTransactionID(context.Background(), "EX-1234")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_FindByPSPTransactionID_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM psp_transactions WHERE psp_transaction_id").
		WithArgs("EX-404").
		WillReturnRows(pgxmock.NewRows(txColumns()))

	result, err := repo.FindByPSPTransactionID(context.Background(), "EX-404")
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Records without a PSP id are never matched.
	result, err = repo.FindByPSPTransactionID(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE psp_transactions SET local_status").
		WithArgs(domain.LocalStatusPaid, pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateStatus(context.Background(), id, domain.LocalStatusPaid)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectExec("UPDATE psp_transactions SET local_status").
		WithArgs(domain.LocalStatusRefund, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), uuid.New(), domain.LocalStatusRefund)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	hc := NewHealthCheck(mock)
	mock.ExpectPing()

	assert.NoError(t, hc.Ping(context.Background()))
	assert.Equal(t, "postgresql", hc.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}
