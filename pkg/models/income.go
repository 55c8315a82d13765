package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment state shared by income records and their items.
// PaymentPartiallyPaid is only ever derived for a record from a mix of item states.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartiallyPaid, PaymentPaid:
		return true
	}
	return false
}

// IncomeRecord is a billable unit composed of one or more scheduled installments.
// TotalValue and Status are always derived from Items.
type IncomeRecord struct {
	ID          string
	ProposalID  *string
	CategoryID  *string
	ClientID    string
	TotalValue  decimal.Decimal
	Description string
	Status      PaymentStatus
	Items       []IncomeItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IncomeItem is one installment of an income record.
type IncomeItem struct {
	ID                 string
	IncomeID           string
	PaymentConditionID *string
	PaymentMethodID    string
	Value              decimal.Decimal
	Status             PaymentStatus
	DueDate            time.Time
	PaymentDate        *time.Time
	InstallmentNumber  int
	TotalInstallments  int
	InterestRate       *decimal.Decimal
	Detail             PaymentDetail
	Description        string
	OrderIndex         int

	// Version is bumped by the store on every write
	Version int

	// Associations resolved by the data layer; nil when not loaded
	Client   *Client
	Category *IncomeCategory
}

// IsPaid reports whether the item has been settled.
func (i *IncomeItem) IsPaid() bool {
	return i.Status == PaymentPaid
}

// IncomeRecordDraft is the unsaved result of converting a proposal. Items still
// need a payment method before the draft can be finalized.
type IncomeRecordDraft struct {
	ProposalID   string
	ProposalCode string
	ClientID     string
	CategoryID   *string
	Description  string
	TotalValue   decimal.Decimal
	Status       PaymentStatus
	Items        []IncomeItem
}

// Client is the counterparty of an income record.
type Client struct {
	ID          string
	Name        string
	TaxDocument string // CPF (11 digits) or CNPJ (14 digits), possibly formatted
}

// IncomeCategory groups income records for reporting.
type IncomeCategory struct {
	ID   string
	Name string
}
