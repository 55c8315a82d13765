package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/conformance"
	"finance/internal/stats"
	"finance/pkg/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-x_9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-x_9", id)

	_, err = extractSpreadsheetID("https://example.com/sheet")
	assert.Error(t, err)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "J", columnLetter(10))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
	assert.Equal(t, "AZ", columnLetter(52))
}

func TestConformanceRows(t *testing.T) {
	report := conformance.Report{
		Range: models.DateRange{
			From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		Revenue: conformance.Result{
			Numerator: decimal.NewFromInt(20000), Denominator: decimal.NewFromInt(20000),
			Percentage: 100, Severity: conformance.SeverityOK, CountConsidered: 4, InvoiceCount: 3,
		},
		Expense: conformance.Result{
			Numerator: decimal.NewFromInt(9000), Denominator: decimal.NewFromInt(10000),
			Percentage: 90, Severity: conformance.SeverityAlerta,
		},
		GeneratedAt: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}

	rows := ConformanceRows(report)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], len(conformanceHeaders))
	assert.Equal(t, "01/03/2025", rows[0][0])
	assert.Equal(t, "Receitas", rows[0][2])
	assert.Equal(t, 20000.0, rows[0][3])
	assert.Equal(t, "Conforme", rows[0][6])
	assert.Equal(t, "Alerta", rows[1][6])
	assert.Equal(t, 90, rows[1][5])
}

func TestFlowRows(t *testing.T) {
	rows := FlowRows([]stats.FlowPoint{
		{Label: "mar/25", Income: decimal.NewFromInt(1000), Expense: decimal.NewFromInt(300), Balance: decimal.NewFromInt(700)},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, []interface{}{"mar/25", 1000.0, 300.0, 700.0}, rows[0])
}
