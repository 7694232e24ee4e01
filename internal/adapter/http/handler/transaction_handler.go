package handler

import (
	"errors"
	"time"

	"psp-reconciler/internal/adapter/http/dto"
	"psp-reconciler/internal/core/domain"
	"psp-reconciler/internal/core/ports"
	"psp-reconciler/pkg/apperror"
	"psp-reconciler/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler serves the admin endpoints for payment attempts.
type TransactionHandler struct {
	reconcileSvc ports.ReconciliationService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(reconcileSvc ports.ReconciliationService) *TransactionHandler {
	return &TransactionHandler{reconcileSvc: reconcileSvc}
}

// RecordAttempt handles POST /api/v1/transactions.
func (h *TransactionHandler) RecordAttempt(c *gin.Context) {
	var req dto.InitialAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	attempt := ports.InitialAttempt{
		OrderID:            uuid.MustParse(req.OrderID),
		OrderTransactionID: uuid.MustParse(req.OrderTransactionID),
		CustomerID:         uuid.MustParse(req.CustomerID),
		PaymentMethodID:    req.PaymentMethodID,
		Amount:             req.Amount,
		Currency:           req.Currency,
		Comment:            req.Comment,
		DispatchID:         req.DispatchID,
		PSPTransactionID:   req.PSPTransactionID,
	}
	if req.Failure != nil && *req.Failure != "" {
		attempt.Failure = errors.New(*req.Failure)
	}

	txn, err := h.reconcileSvc.RecordInitialAttempt(c.Request.Context(), attempt)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// GetByOrder handles GET /api/v1/orders/:order_id/transaction.
func (h *TransactionHandler) GetByOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "order_id")
	if !ok {
		return
	}

	txn, err := h.reconcileSvc.FindByOrderID(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// Reconcile handles POST /api/v1/transactions/:id/reconcile.
func (h *TransactionHandler) Reconcile(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.reconcileSvc.ReconcileByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toReconcileResponse(result))
}

// ReconcileByOrder handles POST /api/v1/orders/:order_id/reconcile.
func (h *TransactionHandler) ReconcileByOrder(c *gin.Context) {
	orderID, ok := uuidParam(c, "order_id")
	if !ok {
		return
	}

	result, err := h.reconcileSvc.ReconcileByOrderID(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toReconcileResponse(result))
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                 tx.ID.String(),
		PSPTransactionID:   tx.PSPTransactionID,
		OrderID:            tx.OrderID.String(),
		OrderTransactionID: tx.OrderTransactionID.String(),
		CustomerID:         tx.CustomerID.String(),
		PaymentMethodID:    tx.PaymentMethodID,
		Amount:             tx.Amount.StringFixed(2),
		Currency:           tx.Currency,
		Comment:            tx.Comment,
		DispatchID:         tx.DispatchID,
		LocalStatus:        int(tx.LocalStatus),
		LocalStatusName:    tx.LocalStatus.String(),
		LastError:          tx.LastError,
		CreatedAt:          tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          tx.UpdatedAt.Format(time.RFC3339),
	}
}

func toReconcileResponse(r ports.ReconcileResult) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		Outcome:       string(r.Outcome),
		Message:       r.Message,
		LocalStatus:   int(r.LocalStatus),
		Transition:    string(r.Transition),
		Applied:       r.Applied,
		StatusWritten: r.StatusWritten,
		Warning:       r.Warning,
	}
}
