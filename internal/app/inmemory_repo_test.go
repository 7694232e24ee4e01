package app

import (
	"context"
	"sync"

	"psp-reconciler/internal/core/domain"
	"psp-reconciler/pkg/apperror"

	"github.com/google/uuid"
)

// inMemoryTransactionRepo is a map-backed ports.TransactionRepository.
type inMemoryTransactionRepo struct {
	mu   sync.RWMutex
	txns map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{txns: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(_ context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.txns {
		if existing.OrderTransactionID == txn.OrderTransactionID && existing.PSPTransactionID == txn.PSPTransactionID {
			return apperror.ErrDuplicateTransaction()
		}
	}
	cp := *txn
	r.txns[txn.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if txn, ok := r.txns[id]; ok {
		cp := *txn
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*domain.Transaction, error) {
	return r.newest(func(t *domain.Transaction) bool { return t.OrderID == orderID }), nil
}

func (r *inMemoryTransactionRepo) FindByPSPTransactionID(_ context.Context, pspTransactionID string) (*domain.Transaction, error) {
	if pspTransactionID == "" {
		return nil, nil
	}
	return r.newest(func(t *domain.Transaction) bool { return t.PSPTransactionID == pspTransactionID }), nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.LocalStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return apperror.ErrNotFound("transaction")
	}
	txn.LocalStatus = status
	return nil
}

func (r *inMemoryTransactionRepo) newest(match func(*domain.Transaction) bool) *domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *domain.Transaction
	for _, txn := range r.txns {
		if match(txn) && (found == nil || txn.CreatedAt.After(found.CreatedAt)) {
			found = txn
		}
	}
	if found == nil {
		return nil
	}
	cp := *found
	return &cp
}
