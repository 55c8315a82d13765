package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssuedInvoice is a service tax invoice (NFS-e) emitted by the studio.
type IssuedInvoice struct {
	ID           string
	Number       string
	Value        decimal.Decimal
	TaxRate      decimal.Decimal // ISS rate in percent
	IssueDate    time.Time
	IncomeItemID *string // Installment the invoice was issued for, if linked

	// Display only
	ClientName   string
	ProposalCode string
}

// ReceivedInvoice is a supplier invoice (NF-e) registered from an uploaded XML.
// TotalValue is kept as it came from storage: it may be a number or a
// numeric string and is coerced before any arithmetic.
type ReceivedInvoice struct {
	ID          string
	Number      string
	IssueDate   time.Time
	IssuerTaxID string // CNPJ of the issuer
	IssuerName  string
	TotalValue  any
	LaunchDate  time.Time
	Items       []map[string]any // Free-form line items as parsed from the XML
}
