package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the local projection of a single PSP payment attempt.
type Transaction struct {
	ID                 uuid.UUID       `json:"id"`
	PSPTransactionID   string          `json:"psp_transaction_id,omitempty"` // Assigned by the PSP, may be empty
	OrderID            uuid.UUID       `json:"order_id"`
	OrderTransactionID uuid.UUID       `json:"order_transaction_id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	PaymentMethodID    int             `json:"payment_method_id"` // PSP payment profile id
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"` // ISO 4217
	Comment            string          `json:"comment,omitempty"`
	DispatchID         string          `json:"dispatch_id,omitempty"`
	LocalStatus        LocalStatus     `json:"local_status"`
	LastError          *string         `json:"last_error,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// HasPSPTransactionID reports whether the PSP has assigned an id to this attempt.
func (t *Transaction) HasPSPTransactionID() bool {
	return t.PSPTransactionID != ""
}
