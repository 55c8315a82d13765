package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/config"
	"finance/internal/conformance"
	"finance/internal/income"
	"finance/pkg/models"
	"finance/pkg/services"
)

func TestResolveRange(t *testing.T) {
	rng, err := resolveRange("2025-02", "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), rng.From)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), rng.To)

	rng, err = resolveRange("", "2025-01-10", "")
	require.NoError(t, err)
	assert.True(t, rng.To.IsZero())
	assert.Equal(t, 10, rng.From.Day())

	_, err = resolveRange("2025-02", "2025-01-01", "")
	assert.Error(t, err)
	_, err = resolveRange("", "2025-03-01", "2025-02-01")
	assert.Error(t, err)
	_, err = resolveRange("", "01/03/2025", "")
	assert.Error(t, err)
}

func TestPrepareDraft(t *testing.T) {
	proposal := &models.Proposal{
		ID: "p1", Code: "PROP-1", ClientID: "c1", Status: models.ProposalApproved,
		PaymentConditions: []models.PaymentCondition{
			{ID: "a", Description: "Entrada", Value: decimal.NewFromInt(300)},
			{ID: "b", Description: "Entrega", Value: decimal.NewFromInt(700)},
		},
	}
	draft, err := income.ConvertProposalToIncomeDraft(proposal, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	prepareDraft(draft, "pm-pix", "cat-1", 1)
	record, err := income.FinalizeDraft(draft)
	require.NoError(t, err)

	assert.Equal(t, "cat-1", *record.CategoryID)
	assert.Equal(t, models.PaymentPaid, record.Items[0].Status)
	assert.Equal(t, models.PaymentPending, record.Items[1].Status)
	assert.Nil(t, record.Items[1].PaymentDate)
	assert.Equal(t, models.PaymentPartiallyPaid, record.Status)
	assert.Equal(t, "pm-pix", record.Items[1].PaymentMethodID)
}

func TestNewCalculator_FiscalDefault(t *testing.T) {
	ds := &services.Dataset{Expenses: []models.Expense{{
		ID: "e1", Value: decimal.NewFromInt(100), PaymentStatus: models.ExpensePaid,
		LaunchDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}}}
	rng := models.DateRange{From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}

	report := newCalculator(&config.Config{}).Run(ds, rng)
	assert.Equal(t, 1, report.Expense.CountConsidered)

	report = newCalculator(&config.Config{UnsetCategoryIsFiscal: true}).Run(ds, rng)
	assert.True(t, report.Expense.NotApplicable)
}

func TestPrintConformance(t *testing.T) {
	var buf bytes.Buffer
	printConformance(&buf, conformance.Report{
		Range: models.DateRange{From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		Revenue: conformance.Result{
			Numerator: decimal.NewFromInt(950), Denominator: decimal.NewFromInt(1000),
			Percentage: 95, Severity: conformance.SeverityAlerta, InvoiceCount: 2, CountConsidered: 3,
		},
		Expense: conformance.Result{NotApplicable: true, Severity: conformance.SeverityOK},
	})

	out := buf.String()
	assert.Contains(t, out, "Período: 01/03/2025 a -")
	assert.Contains(t, out, " 95% Alerta")
	assert.Contains(t, out, "Despesas  sem movimento")
}
