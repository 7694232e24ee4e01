package dto

import "github.com/shopspring/decimal"

// InitialAttemptRequest is the request body for recording a payment attempt.
type InitialAttemptRequest struct {
	OrderID            string          `json:"order_id" binding:"required,uuid"`
	OrderTransactionID string          `json:"order_transaction_id" binding:"required,uuid"`
	CustomerID         string          `json:"customer_id" binding:"required,uuid"`
	PaymentMethodID    int             `json:"payment_method_id" binding:"gte=0"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency" binding:"required,len=3"`
	Comment            string          `json:"comment,omitempty" binding:"max=255"`
	DispatchID         string          `json:"dispatch_id,omitempty" binding:"omitempty,max=255,safe_id"`
	PSPTransactionID   string          `json:"psp_transaction_id,omitempty" binding:"omitempty,max=16,safe_id"`
	Failure            *string         `json:"failure,omitempty"`
}

// TransactionResponse is the response body for a recorded payment attempt.
type TransactionResponse struct {
	ID                 string  `json:"id"`
	PSPTransactionID   string  `json:"psp_transaction_id,omitempty"`
	OrderID            string  `json:"order_id"`
	OrderTransactionID string  `json:"order_transaction_id"`
	CustomerID         string  `json:"customer_id"`
	PaymentMethodID    int     `json:"payment_method_id"`
	Amount             string  `json:"amount"`
	Currency           string  `json:"currency"`
	Comment            string  `json:"comment,omitempty"`
	DispatchID         string  `json:"dispatch_id,omitempty"`
	LocalStatus        int     `json:"local_status"`
	LocalStatusName    string  `json:"local_status_name"`
	LastError          *string `json:"last_error,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// ReconcileResponse is the response body of a manual reconciliation.
type ReconcileResponse struct {
	Outcome       string `json:"outcome"`
	Message       string `json:"message"`
	LocalStatus   int    `json:"local_status"`
	Transition    string `json:"transition,omitempty"`
	Applied       bool   `json:"applied"`
	StatusWritten bool   `json:"status_written"`
	Warning       string `json:"warning,omitempty"`
}

// TokenResponse is returned when an admin token is minted.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}
