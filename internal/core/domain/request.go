package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the set of currencies a request may be denominated in.
type Currency string

const (
	CurrencyMWK Currency = "MWK"
	CurrencyUSD Currency = "USD"
)

// IsValid reports whether the currency is one of the supported codes.
func (c Currency) IsValid() bool {
	return c == CurrencyMWK || c == CurrencyUSD
}

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// IsValid reports whether the status is one of the known values.
func (s RequestStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsDecision reports whether the status is a terminal decision an approver may set.
func (s RequestStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request number range. Numbers are drawn uniformly from this range at
// creation and never reassigned.
const (
	RequestNumberMin = 10000
	RequestNumberMax = 99999
)

// Request is the central entity: an expense/purchase request routed from a
// requester to a designated approver.
type Request struct {
	RequestID     string          `json:"id"`
	RequestNumber int             `json:"request_number"`
	RequestedBy   string          `json:"request_by"` // UserID of the creator, immutable
	ApproverID    string          `json:"approver_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	Purpose       string          `json:"purpose"`
	Description   string          `json:"description,omitempty"`
	// RequiredOn is a free-form date hint supplied by the requester.
	// It is stored verbatim and never validated as a calendar date.
	RequiredOn  string        `json:"required_on,omitempty"`
	Status      RequestStatus `json:"status"`
	InitiatedOn time.Time     `json:"initiated_on"`
	AuditFields
}

// IsPending reports whether the request is still open for edits and deletion.
func (r Request) IsPending() bool {
	return r.Status == StatusPending
}
