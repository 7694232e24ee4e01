package domain

// LocalStatus is the reconciliation status stored alongside an order transaction.
// The integer values are the shop's payment status ids and are persisted as-is.
type LocalStatus int

const (
	LocalStatusUnset      LocalStatus = 0
	LocalStatusPaid       LocalStatus = 12
	LocalStatusPending    LocalStatus = 17
	LocalStatusAuthorized LocalStatus = 18
	LocalStatusRefund     LocalStatus = 20
	LocalStatusCancel     LocalStatus = 35
)

func (s LocalStatus) String() string {
	switch s {
	case LocalStatusUnset:
		return "UNSET"
	case LocalStatusPaid:
		return "PAID"
	case LocalStatusPending:
		return "PENDING"
	case LocalStatusAuthorized:
		return "AUTHORIZED"
	case LocalStatusRefund:
		return "REFUND"
	case LocalStatusCancel:
		return "CANCEL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the known status codes.
func (s LocalStatus) Valid() bool {
	return s.String() != "UNKNOWN"
}

// Transition is a business-level state change applied to an order transaction.
type Transition string

const (
	TransitionNone            Transition = ""
	TransitionPay             Transition = "pay"
	TransitionRefund          Transition = "refund"
	TransitionRefundPartially Transition = "refund_partially"
	TransitionCancel          Transition = "cancel"
)

// PaymentDetails is the descriptive part of a PSP snapshot.
type PaymentDetails struct {
	StateName   string `json:"state_name"`
	State       int    `json:"state"`
	OrderNumber string `json:"order_number"`
}

// Snapshot is the PSP-reported state of a transaction at fetch time.
// The predicates are independently queryable and not guaranteed to be exclusive.
type Snapshot struct {
	BeingVerified     bool
	Pending           bool
	Refunded          bool
	PartiallyRefunded bool
	Authorized        bool
	Paid              bool
	Canceled          bool
	Details           PaymentDetails
}

// IsAwaitingPayment is true for snapshots that are expected to change again soon.
func (s Snapshot) IsAwaitingPayment() bool {
	return s.Pending || s.BeingVerified
}

// MapSnapshot converts a PSP snapshot into the local status and the order
// transition to apply. Checks run in a fixed order and the first match wins,
// so refund states take precedence over paid and authorized.
func MapSnapshot(s Snapshot) (LocalStatus, Transition) {
	switch {
	case s.BeingVerified:
		return LocalStatusPending, TransitionNone
	case s.Pending:
		return LocalStatusPending, TransitionNone
	case s.Refunded:
		return LocalStatusRefund, TransitionRefund
	case s.PartiallyRefunded:
		return LocalStatusRefund, TransitionRefundPartially
	case s.Authorized:
		return LocalStatusAuthorized, TransitionNone
	case s.Paid:
		return LocalStatusPaid, TransitionPay
	case s.Canceled:
		return LocalStatusCancel, TransitionCancel
	}
	return LocalStatusUnset, TransitionNone
}
