// Package conformance measures how much of the studio's money movement is
// backed by tax invoices.
//
// Two ratios are computed over a date range:
//   - Revenue: issued invoices against paid revenue from legal-entity (CNPJ)
//     clients that was received in the legal-entity bank account.
//   - Expense: received supplier invoices against paid expenses in
//     non-fiscal categories.
//
// Both are clamped to [0, 100] and classified as ok, alerta or perigo. A zero
// denominator is not an error: the result is flagged NotApplicable and
// classified ok.
package conformance

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"finance/internal/money"
	"finance/internal/paymentdetail"
	"finance/pkg/models"
)

// Result is the outcome of one conformance computation.
type Result struct {
	Numerator   decimal.Decimal `json:"numerator"`
	Denominator decimal.Decimal `json:"denominator"`
	Percentage  int             `json:"percentage"`
	Severity    Severity        `json:"severity"`

	// CountConsidered is how many denominator records passed the filters;
	// InvoiceCount how many invoices were summed into the numerator.
	CountConsidered int `json:"count_considered"`
	InvoiceCount    int `json:"invoice_count"`

	NotApplicable bool `json:"not_applicable"` // denominator was zero
	OverCompliant bool `json:"over_compliant"` // raw ratio above 100%
}

// FiscalDefault decides how an expense category with no fiscal flag is treated.
type FiscalDefault int

const (
	// UnsetIsNonFiscal counts unflagged (and uncategorized) expenses in the
	// non-fiscal total, so they are expected to have a received invoice.
	UnsetIsNonFiscal FiscalDefault = iota
	// UnsetIsFiscal leaves unflagged expenses out of the non-fiscal total.
	UnsetIsFiscal
)

// ExpenseOptions tunes ComputeExpense.
type ExpenseOptions struct {
	FiscalDefault FiscalDefault
}

// CNPJLength is the digit count of a Brazilian legal-entity tax document.
const CNPJLength = 14

// ComputeRevenue compares issued invoices against paid legal-entity revenue
// received in the legal-entity bank account. Items are in range by payment
// date, invoices by issue date.
func ComputeRevenue(items []models.IncomeItem, invoices []models.IssuedInvoice, legalBankID string, rng models.DateRange) Result {
	routed := decimal.Zero
	considered := 0
	for i := range items {
		item := &items[i]
		if !item.IsPaid() || !rng.ContainsPtr(item.PaymentDate) {
			continue
		}
		if item.Client == nil || !IsLegalEntity(item.Client.TaxDocument) {
			continue
		}
		if !paymentdetail.ItemReferencesBank(item, legalBankID) {
			continue
		}
		routed = routed.Add(money.Coerce(item.Value))
		considered++
	}

	issued := decimal.Zero
	invoiceCount := 0
	for i := range invoices {
		if !rng.Contains(invoices[i].IssueDate) {
			continue
		}
		issued = issued.Add(money.Coerce(invoices[i].Value))
		invoiceCount++
	}

	return newResult(issued, routed, considered, invoiceCount)
}

// ComputeExpense compares received invoices against paid non-fiscal expenses.
// Expenses are in range by launch date, invoices by issue date.
func ComputeExpense(expenses []models.Expense, invoices []models.ReceivedInvoice, rng models.DateRange, opts ExpenseOptions) Result {
	nonFiscal := decimal.Zero
	considered := 0
	for i := range expenses {
		exp := &expenses[i]
		if !exp.IsPaid() || !rng.Contains(exp.LaunchDate) {
			continue
		}
		if !IsNonFiscal(exp.Category, opts.FiscalDefault) {
			continue
		}
		nonFiscal = nonFiscal.Add(money.Coerce(exp.Value))
		considered++
	}

	received := decimal.Zero
	invoiceCount := 0
	for i := range invoices {
		if !rng.Contains(invoices[i].IssueDate) {
			continue
		}
		received = received.Add(money.Coerce(invoices[i].TotalValue))
		invoiceCount++
	}

	return newResult(received, nonFiscal, considered, invoiceCount)
}

// IsNonFiscal reports whether expenses in category count toward the
// non-fiscal total.
func IsNonFiscal(category *models.ExpenseCategory, def FiscalDefault) bool {
	if category == nil || category.IsFiscal == nil {
		return def == UnsetIsNonFiscal
	}
	return !*category.IsFiscal
}

// IsLegalEntity reports whether a tax document has the 14 digits of a CNPJ
// once punctuation is stripped.
func IsLegalEntity(taxDocument string) bool {
	return len(DigitsOnly(taxDocument)) == CNPJLength
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func newResult(numerator, denominator decimal.Decimal, considered, invoiceCount int) Result {
	pct, over := Percentage(numerator, denominator)
	notApplicable := denominator.IsZero()
	return Result{
		Numerator:       numerator,
		Denominator:     denominator,
		Percentage:      pct,
		Severity:        Classify(pct, notApplicable),
		CountConsidered: considered,
		InvoiceCount:    invoiceCount,
		NotApplicable:   notApplicable,
		OverCompliant:   over,
	}
}
