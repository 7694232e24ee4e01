package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"psp-reconciler/internal/core/domain"
	"psp-reconciler/internal/core/ports"
	"psp-reconciler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxPSPTransactionIDLen = 16

// ReconciliationServiceImpl implements ports.ReconciliationService.
type ReconciliationServiceImpl struct {
	txRepo    ports.TransactionRepository
	psp       ports.PSPClient
	orders    ports.OrderStateDriver
	locker    ports.KeyLocker
	publisher ports.EventPublisher
	policy    domain.StatusWritePolicy
	log       zerolog.Logger
}

// NewReconciliationService creates a new ReconciliationServiceImpl.
func NewReconciliationService(
	txRepo ports.TransactionRepository,
	psp ports.PSPClient,
	orders ports.OrderStateDriver,
	locker ports.KeyLocker,
	publisher ports.EventPublisher,
	policy domain.StatusWritePolicy,
	log zerolog.Logger,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		txRepo:    txRepo,
		psp:       psp,
		orders:    orders,
		locker:    locker,
		publisher: publisher,
		policy:    policy,
		log:       log,
	}
}

// RecordInitialAttempt stores the first local record of a payment attempt.
// The PSP is not contacted; the record starts with LocalStatusUnset.
func (s *ReconciliationServiceImpl) RecordInitialAttempt(ctx context.Context, req ports.InitialAttempt) (*domain.Transaction, error) {
	if err := validateInitialAttempt(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                 uuid.New(),
		PSPTransactionID:   req.PSPTransactionID,
		OrderID:            req.OrderID,
		OrderTransactionID: req.OrderTransactionID,
		CustomerID:         req.CustomerID,
		PaymentMethodID:    req.PaymentMethodID,
		Amount:             req.Amount,
		Currency:           strings.ToUpper(req.Currency),
		Comment:            req.Comment,
		DispatchID:         req.DispatchID,
		LocalStatus:        domain.LocalStatusUnset,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.Failure != nil {
		msg := req.Failure.Error()
		txn.LastError = &msg
	}

	if err := s.txRepo.Create(ctx, txn); err != nil {
		if apperror.HasCode(err, "PAY_003") {
			return nil, err
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("order_transaction_id", txn.OrderTransactionID.String()).
		Str("psp_transaction_id", txn.PSPTransactionID).
		Str("amount", txn.Amount.StringFixed(2)).
		Str("currency", txn.Currency).
		Bool("failed", req.Failure != nil).
		Msg("initial payment attempt recorded")

	return txn, nil
}

func validateInitialAttempt(req ports.InitialAttempt) error {
	if req.OrderID == uuid.Nil || req.OrderTransactionID == uuid.Nil || req.CustomerID == uuid.Nil {
		return apperror.Validation("order_id, order_transaction_id and customer_id are required")
	}
	if req.Amount.IsNegative() {
		return apperror.ErrInvalidAmount()
	}
	if !isCurrencyCode(req.Currency) {
		return apperror.ErrInvalidCurrency()
	}
	if len(req.PSPTransactionID) > maxPSPTransactionIDLen {
		return apperror.Validation(fmt.Sprintf("psp_transaction_id must be at most %d characters", maxPSPTransactionIDLen))
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// Reconcile brings the local record and the order state in line with the PSP.
// It never returns an error: every failure is folded into the result.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, txn *domain.Transaction, fromNotification bool) ports.ReconcileResult {
	if txn == nil || !txn.HasPSPTransactionID() {
		return ports.ReconcileResult{Outcome: domain.OutcomeNoAction, Message: domain.MsgNoAction}
	}

	log := s.log.With().
		Str("tx_id", txn.ID.String()).
		Str("psp_transaction_id", txn.PSPTransactionID).
		Bool("from_notification", fromNotification).
		Logger()

	unlock, err := s.locker.Lock(ctx, txn.PSPTransactionID)
	if err != nil {
		log.Warn().Err(err).Msg("reconciliation already in progress")
		return ports.ReconcileResult{Outcome: domain.OutcomeBusy, Message: domain.MsgNoAction, Warning: err.Error()}
	}
	defer unlock()

	snap, err := s.fetchSnapshot(ctx, txn.PSPTransactionID)
	if err != nil {
		return absorbFetchError(log, err, fromNotification)
	}

	status, transition := domain.MapSnapshot(*snap)
	result := ports.ReconcileResult{LocalStatus: status, Transition: transition}

	var transErr error
	if transition != domain.TransitionNone {
		transErr = s.orders.Apply(ctx, txn.OrderTransactionID, transition)
	}
	// An order already in the target state is consistent with the mapped status.
	alreadyApplied := domain.SignalOf(transErr) == domain.SignalAlreadyFinalized
	inSync := transErr == nil || alreadyApplied
	result.Applied = transition != domain.TransitionNone && inSync

	var writeErr error
	if s.policy == domain.StatusWriteAlways || inSync {
		if writeErr = s.txRepo.UpdateStatus(ctx, txn.ID, status); writeErr == nil {
			result.StatusWritten = true
			txn.LocalStatus = status
		}
	}

	switch {
	case transErr != nil && fromNotification && domain.SignalOf(transErr) != domain.SignalNone:
		result.Outcome = domain.OutcomeSignal
		result.Message = transErr.Error()
		log.Info().Err(transErr).Str("signal", domain.SignalOf(transErr).String()).Msg("transition signal during notification")
	case transErr != nil && !alreadyApplied:
		result.Outcome = domain.OutcomeTransitionRejected
		result.Message = domain.MsgNoAction
		result.Warning = transErr.Error()
		log.Warn().Err(transErr).
			Str("transition", string(transition)).
			Str("local_status", status.String()).
			Bool("status_written", result.StatusWritten).
			Msg("order transition rejected")
	case writeErr != nil:
		result.Outcome = domain.OutcomeNoAction
		result.Message = domain.MsgNoAction
		result.Warning = writeErr.Error()
		log.Error().Err(writeErr).Str("local_status", status.String()).Msg("failed to write local status")
	default:
		result.Outcome = domain.OutcomeUpdated
		result.Message = fmt.Sprintf("Status updated to: %s (%d) orderNumber: %s",
			snap.Details.StateName, snap.Details.State, snap.Details.OrderNumber)
		log.Info().
			Str("local_status", status.String()).
			Str("transition", string(transition)).
			Msg("transaction reconciled")
	}

	s.publish(ctx, log, domain.ReconciliationEvent{
		TransactionID:      txn.ID,
		PSPTransactionID:   txn.PSPTransactionID,
		OrderTransactionID: txn.OrderTransactionID,
		Outcome:            result.Outcome,
		LocalStatus:        status,
		Transition:         transition,
		Applied:            result.Applied,
		StatusWritten:      result.StatusWritten,
		Divergent:          result.StatusWritten && !inSync,
		FromNotification:   fromNotification,
		Warning:            result.Warning,
		OccurredAt:         time.Now().UTC(),
	})

	return result
}

// HandleNotification processes an asynchronous PSP status callback.
// Snapshots still awaiting payment are skipped without touching the store.
func (s *ReconciliationServiceImpl) HandleNotification(ctx context.Context, pspTransactionID string) ports.ReconcileResult {
	log := s.log.With().Str("psp_transaction_id", pspTransactionID).Logger()

	snap, err := s.fetchSnapshot(ctx, pspTransactionID)
	if err != nil {
		return absorbFetchError(log, err, true)
	}
	if snap.IsAwaitingPayment() {
		log.Debug().Str("state_name", snap.Details.StateName).Msg("psp transaction still pending, skipping")
		return ports.ReconcileResult{Outcome: domain.OutcomeSkipped, Message: domain.MsgNoAction, LocalStatus: domain.LocalStatusPending}
	}

	txn, err := s.txRepo.FindByPSPTransactionID(ctx, pspTransactionID)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up transaction for notification")
		return ports.ReconcileResult{Outcome: domain.OutcomeNoAction, Message: domain.MsgNoAction, Warning: err.Error()}
	}
	if txn == nil {
		log.Info().Msg("notification for unknown transaction")
		return ports.ReconcileResult{Outcome: domain.OutcomeNoRecord, Message: domain.MsgNoAction}
	}

	return s.Reconcile(ctx, txn, true)
}

// FindByOrderID returns the record for an order, or a PAY_004 error.
func (s *ReconciliationServiceImpl) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find by order id: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return txn, nil
}

// ReconcileByID loads a record by internal id and reconciles it.
func (s *ReconciliationServiceImpl) ReconcileByID(ctx context.Context, id uuid.UUID) (ports.ReconcileResult, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return ports.ReconcileResult{}, apperror.ErrDatabaseError(fmt.Errorf("get by id: %w", err))
	}
	if txn == nil {
		return ports.ReconcileResult{}, apperror.ErrNotFound("Transaction")
	}
	return s.reconcileLoaded(ctx, txn)
}

// ReconcileByOrderID loads the record of an order and reconciles it.
func (s *ReconciliationServiceImpl) ReconcileByOrderID(ctx context.Context, orderID uuid.UUID) (ports.ReconcileResult, error) {
	txn, err := s.FindByOrderID(ctx, orderID)
	if err != nil {
		return ports.ReconcileResult{}, err
	}
	return s.reconcileLoaded(ctx, txn)
}

func (s *ReconciliationServiceImpl) reconcileLoaded(ctx context.Context, txn *domain.Transaction) (ports.ReconcileResult, error) {
	if !txn.HasPSPTransactionID() {
		return ports.ReconcileResult{}, apperror.ErrPSPTransactionMissing()
	}
	return s.Reconcile(ctx, txn, false), nil
}

func (s *ReconciliationServiceImpl) publish(ctx context.Context, log zerolog.Logger, event domain.ReconciliationEvent) {
	if err := s.publisher.PublishReconciled(ctx, event); err != nil {
		log.Warn().Err(err).Str("outcome", string(event.Outcome)).Msg("failed to publish reconciliation event")
	}
}

// fetchSnapshot reads the PSP state. A client returning no snapshot and no
// error is reported as a rejected fetch.
func (s *ReconciliationServiceImpl) fetchSnapshot(ctx context.Context, pspTransactionID string) (*domain.Snapshot, error) {
	snap, err := s.psp.GetSnapshot(ctx, pspTransactionID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, &domain.PSPError{Kind: domain.PSPErrorRejected, TransactionID: pspTransactionID, Message: "empty snapshot"}
	}
	return snap, nil
}

// absorbFetchError turns a PSP fetch failure into a no-op result. Known
// signals raised while handling a notification keep their message.
func absorbFetchError(log zerolog.Logger, err error, fromNotification bool) ports.ReconcileResult {
	if sig := domain.SignalOf(err); fromNotification && sig != domain.SignalNone {
		log.Info().Err(err).Str("signal", sig.String()).Msg("psp signal during notification")
		return ports.ReconcileResult{Outcome: domain.OutcomeSignal, Message: err.Error()}
	}

	var pspErr *domain.PSPError
	if errors.As(err, &pspErr) && pspErr.Temporary() {
		log.Warn().Err(err).Msg("psp fetch failed, will retry on next notification")
	} else {
		log.Error().Err(err).Msg("psp fetch failed")
	}
	return ports.ReconcileResult{Outcome: domain.OutcomeNoAction, Message: domain.MsgNoAction, Warning: err.Error()}
}
