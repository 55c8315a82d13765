package conformance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/pkg/models"
	"finance/pkg/services"
)

const legalBank = "b-pj-001"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var march = models.DateRange{From: day(2025, 3, 1), To: day(2025, 3, 31)}

func boolPtr(b bool) *bool { return &b }

var (
	pjClient = &models.Client{ID: "c-pj", TaxDocument: "12.345.678/0001-99"}
	pfClient = &models.Client{ID: "c-pf", TaxDocument: "123.456.789-09"}
	nonFisc  = &models.ExpenseCategory{ID: "cat-nf", Name: "Fornecedores", IsFiscal: boolPtr(false)}
	fiscal   = &models.ExpenseCategory{ID: "cat-f", Name: "Impostos", IsFiscal: boolPtr(true)}
	unset    = &models.ExpenseCategory{ID: "cat-u", Name: "Diversos"}
)

func paidItem(value string, paidOn time.Time, client *models.Client, bankID string) models.IncomeItem {
	return models.IncomeItem{
		Value:       dec(value),
		Status:      models.PaymentPaid,
		PaymentDate: &paidOn,
		Client:      client,
		Detail:      models.PaymentDetail{Method: models.MethodPix, BankID: bankID},
	}
}

func paidExpense(value string, on time.Time, cat *models.ExpenseCategory) models.Expense {
	return models.Expense{Value: dec(value), LaunchDate: on, PaymentStatus: models.ExpensePaid, Category: cat}
}

func TestPercentageAndClassify(t *testing.T) {
	tests := []struct {
		num, den string
		pct      int
		over     bool
		severity Severity
	}{
		{"9000", "10000", 90, false, SeverityAlerta},
		{"5000", "10000", 50, false, SeverityPerigo},
		{"20000", "20000", 100, false, SeverityOK},
		{"30000", "20000", 100, true, SeverityOK},
		{"8995", "10000", 90, false, SeverityAlerta},
		{"8949", "10000", 89, false, SeverityPerigo},
		{"9999", "10000", 100, false, SeverityOK},
		{"-50", "100", 0, false, SeverityPerigo},
		{"0", "100", 0, false, SeverityPerigo},
	}

	for _, tt := range tests {
		pct, over := Percentage(dec(tt.num), dec(tt.den))
		assert.Equal(t, tt.pct, pct, "%s/%s", tt.num, tt.den)
		assert.Equal(t, tt.over, over, "%s/%s", tt.num, tt.den)
		assert.Equal(t, tt.severity, Classify(pct, false), "%s/%s", tt.num, tt.den)
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
	}

	pct, over := Percentage(dec("500"), decimal.Zero)
	assert.Equal(t, 0, pct)
	assert.False(t, over)
	assert.Equal(t, SeverityOK, Classify(pct, true))
}

func TestComputeExpense_Severity(t *testing.T) {
	expenses := []models.Expense{
		paidExpense("6000", day(2025, 3, 5), nonFisc),
		paidExpense("4000", day(2025, 3, 20), nonFisc),
	}

	t.Run("90 percent is alerta", func(t *testing.T) {
		invoices := []models.ReceivedInvoice{
			{IssueDate: day(2025, 3, 6), TotalValue: "5000,00"},
			{IssueDate: day(2025, 3, 21), TotalValue: 4000.0},
		}
		r := ComputeExpense(expenses, invoices, march, ExpenseOptions{})
		assert.Equal(t, "10000", r.Denominator.String())
		assert.Equal(t, "9000", r.Numerator.String())
		assert.Equal(t, 90, r.Percentage)
		assert.Equal(t, SeverityAlerta, r.Severity)
		assert.Equal(t, 2, r.CountConsidered)
		assert.Equal(t, 2, r.InvoiceCount)
	})

	t.Run("50 percent is perigo", func(t *testing.T) {
		invoices := []models.ReceivedInvoice{{IssueDate: day(2025, 3, 6), TotalValue: "5000"}}
		r := ComputeExpense(expenses, invoices, march, ExpenseOptions{})
		assert.Equal(t, 50, r.Percentage)
		assert.Equal(t, SeverityPerigo, r.Severity)
	})
}

func TestComputeExpense_Filters(t *testing.T) {
	pending := paidExpense("1000", day(2025, 3, 5), nonFisc)
	pending.PaymentStatus = models.ExpensePending

	expenses := []models.Expense{
		paidExpense("1000", day(2025, 3, 5), nonFisc),
		paidExpense("2000", day(2025, 3, 5), fiscal),
		paidExpense("4000", day(2025, 4, 1), nonFisc), // out of range
		paidExpense("300", day(2025, 3, 9), unset),
		paidExpense("700", day(2025, 3, 9), nil),
		pending,
	}
	invoices := []models.ReceivedInvoice{
		{IssueDate: day(2025, 3, 2), TotalValue: "not a number"},
		{IssueDate: day(2025, 2, 28), TotalValue: "1000"}, // out of range
		{IssueDate: day(2025, 3, 31), TotalValue: nil},
	}

	r := ComputeExpense(expenses, invoices, march, ExpenseOptions{FiscalDefault: UnsetIsNonFiscal})
	assert.Equal(t, "2000", r.Denominator.String())
	assert.Equal(t, 3, r.CountConsidered)
	assert.True(t, r.Numerator.IsZero())
	assert.Equal(t, 2, r.InvoiceCount)
	assert.Equal(t, SeverityPerigo, r.Severity)

	r = ComputeExpense(expenses, invoices, march, ExpenseOptions{FiscalDefault: UnsetIsFiscal})
	assert.Equal(t, "1000", r.Denominator.String())
	assert.Equal(t, 1, r.CountConsidered)
}

func TestComputeExpense_NotApplicable(t *testing.T) {
	invoices := []models.ReceivedInvoice{{IssueDate: day(2025, 3, 6), TotalValue: "120"}}
	r := ComputeExpense(nil, invoices, march, ExpenseOptions{})
	assert.True(t, r.NotApplicable)
	assert.Equal(t, 0, r.Percentage)
	assert.Equal(t, SeverityOK, r.Severity)
	assert.Equal(t, "120", r.Numerator.String())
}

func TestComputeRevenue_FullyInvoiced(t *testing.T) {
	items := []models.IncomeItem{
		paidItem("12000", day(2025, 3, 3), pjClient, legalBank),
		paidItem("8000", day(2025, 3, 28), pjClient, legalBank),
	}
	invoices := []models.IssuedInvoice{
		{IssueDate: day(2025, 3, 3), Value: dec("12000")},
		{IssueDate: day(2025, 3, 28), Value: dec("8000")},
	}

	r := ComputeRevenue(items, invoices, legalBank, march)
	assert.Equal(t, "20000", r.Denominator.String())
	assert.Equal(t, "20000", r.Numerator.String())
	assert.Equal(t, 100, r.Percentage)
	assert.Equal(t, SeverityOK, r.Severity)
	assert.False(t, r.OverCompliant)
}

func TestComputeRevenue_Filters(t *testing.T) {
	pending := paidItem("999", day(2025, 3, 3), pjClient, legalBank)
	pending.Status = models.PaymentPending
	pending.PaymentDate = nil

	nested := paidItem("500", day(2025, 3, 10), pjClient, "")
	nested.Detail = models.PaymentDetail{
		Method: models.MethodCard,
		Card:   &models.CardDetail{Installments: 2, Bank: legalBank},
	}

	items := []models.IncomeItem{
		paidItem("1000", day(2025, 3, 3), pjClient, legalBank),
		paidItem("2000", day(2025, 3, 3), pfClient, legalBank),   // individual client
		paidItem("4000", day(2025, 3, 3), pjClient, "b-other"),   // other bank
		paidItem("8000", day(2025, 4, 3), pjClient, legalBank),   // out of range
		paidItem("16000", day(2025, 3, 3), nil, legalBank),       // client not resolved
		pending,
		nested,
	}
	invoices := []models.IssuedInvoice{
		{IssueDate: day(2025, 3, 15), Value: dec("3000")},
	}

	r := ComputeRevenue(items, invoices, legalBank, march)
	assert.Equal(t, "1500", r.Denominator.String())
	assert.Equal(t, 2, r.CountConsidered)
	assert.Equal(t, 100, r.Percentage)
	assert.True(t, r.OverCompliant)
	assert.Equal(t, SeverityOK, r.Severity)

	r = ComputeRevenue(items, invoices, "", march)
	assert.True(t, r.NotApplicable)
}

func TestIsLegalEntity(t *testing.T) {
	assert.True(t, IsLegalEntity("12.345.678/0001-99"))
	assert.True(t, IsLegalEntity("12345678000199"))
	assert.False(t, IsLegalEntity("123.456.789-09"))
	assert.False(t, IsLegalEntity(""))
	assert.Equal(t, "12345678000199", DigitsOnly(" 12.345.678/0001-99 "))
}

func TestCalculatorRun(t *testing.T) {
	ds := &services.Dataset{
		IncomeItems:    []models.IncomeItem{paidItem("1000", day(2025, 3, 3), pjClient, legalBank)},
		IssuedInvoices: []models.IssuedInvoice{{IssueDate: day(2025, 3, 3), Value: dec("500")}},
		Expenses:       []models.Expense{paidExpense("1000", day(2025, 3, 5), nonFisc)},
		ReceivedInvoices: []models.ReceivedInvoice{
			{IssueDate: day(2025, 3, 5), TotalValue: "950"},
		},
	}

	report := NewCalculator(legalBank, ExpenseOptions{}).Run(ds, march)
	require.Equal(t, march, report.Range)
	assert.Equal(t, 50, report.Revenue.Percentage)
	assert.Equal(t, 95, report.Expense.Percentage)
	assert.Equal(t, SeverityPerigo, report.Worst())

	report.Revenue.Severity = SeverityOK
	assert.Equal(t, SeverityAlerta, report.Worst())
}
