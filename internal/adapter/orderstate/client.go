package orderstate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"psp-reconciler/config"
	"psp-reconciler/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// targetStates is the order transaction state each transition ends in.
var targetStates = map[domain.Transition]string{
	domain.TransitionPay:             "paid",
	domain.TransitionRefund:          "refunded",
	domain.TransitionRefundPartially: "refunded_partially",
	domain.TransitionCancel:          "cancelled",
}

const (
	tokenRefreshMargin = 30 * time.Second
	maxResponseBytes   = 1 << 20
)

// Client drives order transaction state through the shop admin API.
// It implements ports.OrderStateDriver.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         HTTPClient
	log          zerolog.Logger
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewClient creates a shop admin client whose every call is bounded by cfg.Timeout.
func NewClient(cfg config.ShopConfig, log zerolog.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout}, log)
}

// NewClientWithHTTP creates a shop admin client using the given transport.
func NewClientWithHTTP(cfg config.ShopConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         httpClient,
		log:          log,
		now:          time.Now,
	}
}

// Apply moves the order transaction through the given transition.
// An order transaction that is already in the target state is reported as
// AlreadyApplied and left untouched.
func (c *Client) Apply(ctx context.Context, orderTransactionID uuid.UUID, transition domain.Transition) error {
	target, ok := targetStates[transition]
	if !ok {
		return &domain.TransitionError{
			OrderTransactionID: orderTransactionID,
			Transition:         transition,
			Illegal:            true,
			Reason:             "unsupported transition",
		}
	}

	shopID := shopEntityID(orderTransactionID)
	current, err := c.currentState(ctx, shopID)
	if err != nil {
		return &domain.TransitionError{OrderTransactionID: orderTransactionID, Transition: transition, Reason: "read current state", Err: err}
	}
	if current == target {
		return &domain.TransitionError{
			OrderTransactionID: orderTransactionID,
			Transition:         transition,
			AlreadyApplied:     true,
			Reason:             "order transaction is already " + target,
		}
	}

	path := fmt.Sprintf("/api/_action/order_transaction/%s/state/%s", shopID, transition)
	status, body, err := c.do(ctx, http.MethodPost, path, struct{}{})
	if err != nil {
		return &domain.TransitionError{OrderTransactionID: orderTransactionID, Transition: transition, Err: err}
	}

	switch {
	case status >= 200 && status < 300:
		c.log.Info().
			Str("order_transaction_id", orderTransactionID.String()).
			Str("transition", string(transition)).
			Str("from_state", current).
			Msg("order transaction state changed")
		return nil
	case status == http.StatusBadRequest && strings.HasSuffix(apiErrorCode(body), "ILLEGAL_STATE_TRANSITION"):
		return &domain.TransitionError{
			OrderTransactionID: orderTransactionID,
			Transition:         transition,
			Illegal:            true,
			Reason:             fmt.Sprintf("not allowed from state %q", current),
		}
	default:
		return &domain.TransitionError{
			OrderTransactionID: orderTransactionID,
			Transition:         transition,
			Reason:             fmt.Sprintf("unexpected status %d", status),
		}
	}
}

type searchRequest struct {
	IDs          []string                  `json:"ids"`
	Associations map[string]map[string]any `json:"associations"`
}

type searchResponse struct {
	Data []struct {
		ID                string `json:"id"`
		StateMachineState struct {
			TechnicalName string `json:"technicalName"`
		} `json:"stateMachineState"`
	} `json:"data"`
}

// shopEntityID renders an id the way the shop API expects it: 32 hex
// characters without dashes.
func shopEntityID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

func (c *Client) currentState(ctx context.Context, shopID string) (string, error) {
	req := searchRequest{
		IDs:          []string{shopID},
		Associations: map[string]map[string]any{"stateMachineState": {}},
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/search/order-transaction", req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("search order transaction: unexpected status %d", status)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", errors.New("order transaction not found")
	}
	return resp.Data[0].StateMachineState.TechnicalName, nil
}

// do sends an authenticated JSON request. A 401 drops the cached token and
// the request is retried once with a fresh one.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		token, err := c.token(ctx)
		if err != nil {
			return 0, nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		status, body, err := c.send(req)
		if err != nil {
			return 0, nil, err
		}
		if status == http.StatusUnauthorized && attempt == 0 {
			c.invalidate()
			continue
		}
		return status, body, nil
	}
}

func (c *Client) send(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	data, _ := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/oauth/token", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.send(req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("oauth token: unexpected status %d", status)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", errors.New("oauth token: malformed response")
	}

	c.accessToken = tr.AccessToken
	c.expiresAt = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenRefreshMargin)
	return c.accessToken, nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

type apiErrors struct {
	Errors []struct {
		Code string `json:"code"`
	} `json:"errors"`
}

func apiErrorCode(body []byte) string {
	var e apiErrors
	if err := json.Unmarshal(body, &e); err != nil || len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Code
}
