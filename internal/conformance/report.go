package conformance

import (
	"time"

	"github.com/rs/zerolog"

	"finance/internal/logger"
	"finance/pkg/models"
	"finance/pkg/services"
)

// Report holds both conformance computations for one date range.
type Report struct {
	Range       models.DateRange `json:"range"`
	Revenue     Result           `json:"revenue"`
	Expense     Result           `json:"expense"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Worst returns the most severe classification of the two results.
func (r Report) Worst() Severity {
	rank := map[Severity]int{SeverityOK: 0, SeverityAlerta: 1, SeverityPerigo: 2}
	if rank[r.Expense.Severity] > rank[r.Revenue.Severity] {
		return r.Expense.Severity
	}
	return r.Revenue.Severity
}

// Calculator runs both computations with a fixed configuration.
type Calculator struct {
	legalBankID string
	opts        ExpenseOptions
	log         zerolog.Logger
}

// NewCalculator creates a calculator that treats legalBankID as the
// legal-entity bank account.
func NewCalculator(legalBankID string, opts ExpenseOptions) *Calculator {
	return &Calculator{
		legalBankID: legalBankID,
		opts:        opts,
		log:         logger.WithComponent("conformance"),
	}
}

// Run computes the conformance report for rng over ds.
func (c *Calculator) Run(ds *services.Dataset, rng models.DateRange) Report {
	if c.legalBankID == "" {
		c.log.Warn().Msg("No legal-entity bank configured, revenue conformance will be not applicable")
	}

	report := Report{
		Range:       rng,
		Revenue:     ComputeRevenue(ds.IncomeItems, ds.IssuedInvoices, c.legalBankID, rng),
		Expense:     ComputeExpense(ds.Expenses, ds.ReceivedInvoices, rng, c.opts),
		GeneratedAt: time.Now(),
	}

	c.logResult("revenue", report.Revenue)
	c.logResult("expense", report.Expense)

	return report
}

func (c *Calculator) logResult(kind string, r Result) {
	event := c.log.Info()
	if r.Severity != SeverityOK {
		event = c.log.Warn()
	}
	event.
		Str("kind", kind).
		Str("numerator", r.Numerator.StringFixed(2)).
		Str("denominator", r.Denominator.StringFixed(2)).
		Int("percentage", r.Percentage).
		Str("severity", string(r.Severity)).
		Int("records", r.CountConsidered).
		Int("invoices", r.InvoiceCount).
		Bool("not_applicable", r.NotApplicable).
		Bool("over_compliant", r.OverCompliant).
		Msg("Conformance computed")
}
