package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus is the commercial state of a proposal.
type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "draft"
	ProposalSent     ProposalStatus = "sent"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExpired  ProposalStatus = "expired"
)

// Proposal is a commercial proposal sent to a client. Once approved it is only
// touched by status transitions performed outside the engine.
type Proposal struct {
	ID         string
	Code       string // Human-readable proposal code, e.g. "PROP-2025-014"
	ClientID   string
	TotalValue decimal.Decimal
	Status     ProposalStatus
	CreatedAt  time.Time

	// Ordered payment breakdown agreed with the client
	PaymentConditions []PaymentCondition
}

// PaymentCondition is one line of a proposal's payment breakdown.
type PaymentCondition struct {
	ID          string
	Description string
	Percentage  decimal.Decimal
	Value       decimal.Decimal
}

// IsApproved reports whether the proposal can be turned into income.
func (p *Proposal) IsApproved() bool {
	return p.Status == ProposalApproved
}
