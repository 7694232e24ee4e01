package domain

import (
	"time"

	"github.com/google/uuid"
)

// MsgNoAction is the human-readable text of every no-op result.
const MsgNoAction = "No action, order was not created"

// Outcome classifies how a reconciliation call ended.
type Outcome string

const (
	OutcomeUpdated            Outcome = "UPDATED"
	OutcomeSkipped            Outcome = "SKIPPED"   // PSP still pending, nothing to do
	OutcomeNoRecord           Outcome = "NO_RECORD" // notification for an untracked id
	OutcomeSignal             Outcome = "SIGNAL"    // non-fatal PSP signal during a notification
	OutcomeTransitionRejected Outcome = "TRANSITION_REJECTED"
	OutcomeBusy               Outcome = "BUSY"
	OutcomeNoAction           Outcome = "NO_ACTION"
)

// StatusWritePolicy decides whether the mapped status is persisted when the
// order transition for it was rejected.
type StatusWritePolicy string

const (
	// StatusWriteAlways keeps the last mapped PSP status as an audit trail,
	// even if the order state driver refused the transition.
	StatusWriteAlways StatusWritePolicy = "always"
	// StatusWriteAppliedOnly keeps local status and order state in lockstep.
	StatusWriteAppliedOnly StatusWritePolicy = "applied_only"
)

// ParseStatusWritePolicy falls back to StatusWriteAlways for unknown values.
func ParseStatusWritePolicy(s string) StatusWritePolicy {
	if StatusWritePolicy(s) == StatusWriteAppliedOnly {
		return StatusWriteAppliedOnly
	}
	return StatusWriteAlways
}

// ReconciliationEvent is published after every reconciliation that reached the PSP.
type ReconciliationEvent struct {
	TransactionID      uuid.UUID   `json:"transaction_id"`
	PSPTransactionID   string      `json:"psp_transaction_id"`
	OrderTransactionID uuid.UUID   `json:"order_transaction_id"`
	Outcome            Outcome     `json:"outcome"`
	LocalStatus        LocalStatus `json:"local_status"`
	Transition         Transition  `json:"transition,omitempty"`
	Applied            bool        `json:"applied"`
	StatusWritten      bool        `json:"status_written"`
	// Divergent marks a written status whose order transition was rejected.
	Divergent        bool      `json:"divergent"`
	FromNotification bool      `json:"from_notification"`
	Warning          string    `json:"warning,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
