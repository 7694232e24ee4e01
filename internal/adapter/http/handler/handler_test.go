package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"psp-reconciler/internal/core/domain"
	"psp-reconciler/internal/core/ports"
	"psp-reconciler/internal/core/ports/mocks"
	"psp-reconciler/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const adminToken = "admin-token"

type testEnv struct {
	router *gin.Engine
	svc    *mocks.MockReconciliationService
}

func newTestEnv(t *testing.T) testEnv {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockReconciliationService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	tokens.EXPECT().Validate(adminToken).Return(&ports.TokenClaims{Subject: "ops", ExpiresAt: time.Now().Add(time.Hour)}, nil).AnyTimes()
	tokens.EXPECT().Validate(gomock.Not(adminToken)).Return(nil, assert.AnError).AnyTimes()

	return testEnv{
		router: SetupRouter(RouterDeps{ReconcileSvc: svc, TokenSvc: tokens, Logger: zerolog.Nop()}),
		svc:    svc,
	}
}

func (e testEnv) do(method, target string, body []byte, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has data envelope: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

func sampleTransaction() *domain.Transaction {
	created := time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC)
	return &domain.Transaction{
		ID:                 uuid.New(),
		PSPTransactionID:   "EX-1234",
		OrderID:            uuid.New(),
		OrderTransactionID: uuid.New(),
		CustomerID:         uuid.New(),
		PaymentMethodID:    10,
		Amount:             decimal.RequireFromString("49.95"),
		Currency:           "EUR",
		LocalStatus:        domain.LocalStatusPaid,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
}

// --- Exchange ---

func TestExchange_FormOrderID(t *testing.T) {
	env := newTestEnv(t)
	env.svc.EXPECT().HandleNotification(gomock.Any(), "EX-1234").Return(ports.ReconcileResult{
		Outcome: domain.OutcomeUpdated,
		Message: "Status updated to: PAID (100) orderNumber: ON-1",
	})

	form := url.Values{"action": {"new_ppt"}, "order_id": {"EX-1234"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/psp/exchange", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TRUE| Status updated to: PAID (100) orderNumber: ON-1", w.Body.String())
}

func TestExchange_QueryTransactionID(t *testing.T) {
	env := newTestEnv(t)
	env.svc.EXPECT().HandleNotification(gomock.Any(), "EX-77").Return(ports.ReconcileResult{
		Outcome: domain.OutcomeSkipped,
		Message: domain.MsgNoAction,
	})

	w := env.do(http.MethodPost, "/api/v1/psp/exchange?transaction_id=EX-77", nil, false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TRUE| "+domain.MsgNoAction, w.Body.String())
}

func TestExchange_RejectedTransitionStillAcknowledged(t *testing.T) {
	env := newTestEnv(t)
	env.svc.EXPECT().HandleNotification(gomock.Any(), "EX-9").Return(ports.ReconcileResult{
		Outcome: domain.OutcomeTransitionRejected,
		Message: domain.MsgNoAction,
		Warning: "transition \"pay\" is illegal",
	})

	w := env.do(http.MethodPost, "/api/v1/psp/exchange?order_id=EX-9", nil, false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "TRUE| "))
}

func TestExchange_MissingOrUnsafeID(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/api/v1/psp/exchange", "/api/v1/psp/exchange?order_id=EX%2F..%2F1"} {
		w := env.do(http.MethodPost, target, nil, false)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "TRUE| "+domain.MsgNoAction, w.Body.String())
	}
}

// --- Admin: record attempt ---

func TestRecordAttempt_Success(t *testing.T) {
	env := newTestEnv(t)
	txn := sampleTransaction()
	txn.LocalStatus = domain.LocalStatusUnset
	failure := "card declined"
	txn.LastError = &failure

	env.svc.EXPECT().RecordInitialAttempt(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.InitialAttempt) (*domain.Transaction, error) {
			assert.Equal(t, txn.OrderID, req.OrderID)
			assert.True(t, decimal.RequireFromString("49.95").Equal(req.Amount))
			assert.Equal(t, "EX-1234", req.PSPTransactionID)
			assert.Equal(t, "first &amp; only", req.Comment)
			require.Error(t, req.Failure)
			assert.Equal(t, "card declined", req.Failure.Error())
			return txn, nil
		})

	body, _ := json.Marshal(map[string]any{
		"order_id":             txn.OrderID.String(),
		"order_transaction_id": txn.OrderTransactionID.String(),
		"customer_id":          txn.CustomerID.String(),
		"payment_method_id":    10,
		"amount":               "49.95",
		"currency":             "EUR",
		"comment":              " first & only ",
		"psp_transaction_id":   "EX-1234",
		"failure":              "card declined",
	})

	w := env.do(http.MethodPost, "/api/v1/transactions", body, true)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, txn.ID.String(), data["id"])
	assert.Equal(t, "49.95", data["amount"])
	assert.Equal(t, "UNSET", data["local_status_name"])
	assert.Equal(t, "card declined", data["last_error"])
	assert.Equal(t, "2026-02-03T09:30:00Z", data["created_at"])
}

func TestRecordAttempt_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/transactions", []byte(`{"order_id":"nope"}`), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PAY_002", errorCode(t, w))
}

func TestRecordAttempt_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.svc.EXPECT().RecordInitialAttempt(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrDuplicateTransaction())

	body, _ := json.Marshal(map[string]any{
		"order_id":             uuid.NewString(),
		"order_transaction_id": uuid.NewString(),
		"customer_id":          uuid.NewString(),
		"amount":               12.5,
		"currency":             "EUR",
	})

	w := env.do(http.MethodPost, "/api/v1/transactions", body, true)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PAY_003", errorCode(t, w))
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)
	orderID := uuid.NewString()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/transactions"},
		{http.MethodPost, "/api/v1/transactions/" + uuid.NewString() + "/reconcile"},
		{http.MethodGet, "/api/v1/orders/" + orderID + "/transaction"},
		{http.MethodPost, "/api/v1/orders/" + orderID + "/reconcile"},
	}

	for _, r := range routes {
		w := env.do(r.method, r.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}
}

// --- Admin: lookup and manual reconcile ---

func TestGetByOrder_Success(t *testing.T) {
	env := newTestEnv(t)
	txn := sampleTransaction()
	env.svc.EXPECT().FindByOrderID(gomock.Any(), txn.OrderID).Return(txn, nil)

	w := env.do(http.MethodGet, "/api/v1/orders/"+txn.OrderID.String()+"/transaction", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "EX-1234", data["psp_transaction_id"])
	assert.Equal(t, float64(12), data["local_status"])
	assert.Equal(t, "PAID", data["local_status_name"])
}

func TestGetByOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)
	orderID := uuid.New()
	env.svc.EXPECT().FindByOrderID(gomock.Any(), orderID).Return(nil, apperror.ErrNotFound("transaction"))

	w := env.do(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/transaction", nil, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PAY_004", errorCode(t, w))
}

func TestGetByOrder_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/orders/not-a-uuid/transaction", nil, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReconcile_ByID(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.svc.EXPECT().ReconcileByID(gomock.Any(), id).Return(ports.ReconcileResult{
		Outcome:       domain.OutcomeTransitionRejected,
		Message:       domain.MsgNoAction,
		LocalStatus:   domain.LocalStatusPaid,
		Transition:    domain.TransitionPay,
		StatusWritten: true,
		Warning:       "illegal",
	}, nil)

	w := env.do(http.MethodPost, "/api/v1/transactions/"+id.String()+"/reconcile", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "TRANSITION_REJECTED", data["outcome"])
	assert.Equal(t, "pay", data["transition"])
	assert.Equal(t, true, data["status_written"])
	assert.Equal(t, false, data["applied"])
	assert.Equal(t, "illegal", data["warning"])
}

func TestReconcile_ByOrderMissingPSPID(t *testing.T) {
	env := newTestEnv(t)
	orderID := uuid.New()
	env.svc.EXPECT().ReconcileByOrderID(gomock.Any(), orderID).Return(ports.ReconcileResult{}, apperror.ErrPSPTransactionMissing())

	w := env.do(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/reconcile", nil, true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "PSP_002", errorCode(t, w))
}

// --- Health ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		checkers []ports.HealthChecker
		code     int
		status   string
	}{
		{"all healthy", []ports.HealthChecker{stubChecker{name: "postgresql"}, stubChecker{name: "redis"}}, http.StatusOK, "healthy"},
		{"redis down", []ports.HealthChecker{stubChecker{name: "postgresql"}, stubChecker{name: "redis", err: errors.New("refused")}}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", HealthCheck(tt.checkers...))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp["status"])
			assert.Len(t, resp["dependencies"], len(tt.checkers))
		})
	}
}
