package psp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"psp-reconciler/config"
	"psp-reconciler/internal/core/domain"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.PSPClient against the PSP's transaction status API.
type Client struct {
	baseURL   string
	projectID string
	apiKey    string
	http      HTTPClient
	log       zerolog.Logger
}

// NewClient creates a PSP client whose every call is bounded by cfg.Timeout.
func NewClient(cfg config.PSPConfig, log zerolog.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout}, log)
}

// NewClientWithHTTP creates a PSP client using the given transport.
func NewClientWithHTTP(cfg config.PSPConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		projectID: cfg.ProjectID,
		apiKey:    cfg.APIKey,
		http:      httpClient,
		log:       log,
	}
}

// statusResponse is the body of GET /v1/transactions/{id}/status.
type statusResponse struct {
	TransactionID string `json:"transactionId"`
	OrderNumber   string `json:"orderNumber"`
	State         int    `json:"state"`
	StateName     string `json:"stateName"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

const codeAlreadyFinalized = "ALREADY_FINALIZED"

// GetSnapshot fetches the current PSP state of a transaction.
func (c *Client) GetSnapshot(ctx context.Context, pspTransactionID string) (*domain.Snapshot, error) {
	endpoint := fmt.Sprintf("%s/v1/transactions/%s/status", c.baseURL, url.PathEscape(pspTransactionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.PSPError{Kind: domain.PSPErrorRejected, TransactionID: pspTransactionID, Message: "build request", Err: err}
	}
	req.SetBasicAuth(c.projectID, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.PSPError{Kind: domain.PSPErrorTransient, TransactionID: pspTransactionID, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &domain.PSPError{Kind: domain.PSPErrorTransient, TransactionID: pspTransactionID, Message: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.classify(pspTransactionID, resp.StatusCode, body)
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, &domain.PSPError{Kind: domain.PSPErrorRejected, TransactionID: pspTransactionID, Message: "decode response", Err: err}
	}

	c.log.Debug().
		Str("psp_transaction_id", pspTransactionID).
		Int("state", status.State).
		Str("state_name", status.StateName).
		Msg("psp status fetched")

	snap := SnapshotFromState(status.State)
	snap.Details = domain.PaymentDetails{
		StateName:   status.StateName,
		State:       status.State,
		OrderNumber: status.OrderNumber,
	}
	return &snap, nil
}

func (c *Client) classify(pspTransactionID string, statusCode int, body []byte) error {
	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	msg := apiErr.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", statusCode)
	}

	kind := domain.PSPErrorRejected
	switch {
	case apiErr.Error.Code == codeAlreadyFinalized || statusCode == http.StatusConflict:
		kind = domain.PSPErrorAlreadyFinalized
	case statusCode == http.StatusNotFound:
		kind = domain.PSPErrorNotFound
	case statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError:
		kind = domain.PSPErrorTransient
	}

	return &domain.PSPError{
		Kind:          kind,
		TransactionID: pspTransactionID,
		Message:       msg,
		Err:           errors.New(http.StatusText(statusCode)),
	}
}

// PSP state codes.
const (
	StateVerify            = 85
	StatePaid              = 100
	StateAuthorized        = 95
	StateRefunded          = -81
	StatePartiallyRefunded = -82
)

var pendingStates = map[int]bool{20: true, 25: true, 40: true, 50: true, 90: true}

// SnapshotFromState derives the snapshot predicates from a PSP state code.
func SnapshotFromState(state int) domain.Snapshot {
	return domain.Snapshot{
		BeingVerified:     state == StateVerify,
		Pending:           pendingStates[state],
		Refunded:          state == StateRefunded,
		PartiallyRefunded: state == StatePartiallyRefunded,
		Authorized:        state == StateAuthorized,
		Paid:              state == StatePaid,
		Canceled:          state < 0 && state != StateRefunded && state != StatePartiallyRefunded,
	}
}
