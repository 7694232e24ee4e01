package handler

import (
	"psp-reconciler/internal/adapter/http/dto"
	"psp-reconciler/internal/core/domain"
	"psp-reconciler/internal/core/ports"
	"psp-reconciler/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExchangeHandler receives asynchronous PSP status callbacks.
type ExchangeHandler struct {
	reconcileSvc ports.ReconciliationService
	log          zerolog.Logger
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(reconcileSvc ports.ReconciliationService, log zerolog.Logger) *ExchangeHandler {
	return &ExchangeHandler{reconcileSvc: reconcileSvc, log: log}
}

// Exchange handles POST /api/v1/psp/exchange.
// The PSP sends its transaction id as order_id. The reply is always 200 with
// a TRUE| prefix, otherwise the PSP keeps retrying the callback.
func (h *ExchangeHandler) Exchange(c *gin.Context) {
	pspTransactionID := exchangeTransactionID(c)
	if !dto.IsSafeID(pspTransactionID) {
		h.log.Warn().Str("client_ip", c.ClientIP()).Msg("exchange call without usable transaction id")
		response.Acknowledge(c, domain.MsgNoAction)
		return
	}

	result := h.reconcileSvc.HandleNotification(c.Request.Context(), pspTransactionID)

	event := h.log.Info()
	if result.Outcome == domain.OutcomeTransitionRejected || result.Warning != "" {
		event = h.log.Warn()
	}
	event.
		Str("psp_transaction_id", pspTransactionID).
		Str("outcome", string(result.Outcome)).
		Str("warning", result.Warning).
		Msg("exchange processed")

	response.Acknowledge(c, result.Message)
}

func exchangeTransactionID(c *gin.Context) string {
	for _, key := range []string{"order_id", "transaction_id"} {
		if v, ok := c.GetPostForm(key); ok && v != "" {
			return v
		}
		if v, ok := c.GetQuery(key); ok && v != "" {
			return v
		}
	}
	return ""
}
