package notify

import (
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/config"
	"finance/internal/conformance"
	"finance/pkg/models"
)

func alertReport() conformance.Report {
	return conformance.Report{
		Range: models.DateRange{
			From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		Revenue: conformance.Result{NotApplicable: true, Severity: conformance.SeverityOK},
		Expense: conformance.Result{
			Numerator:       decimal.NewFromInt(500),
			Denominator:     decimal.NewFromInt(1000),
			Percentage:      50,
			Severity:        conformance.SeverityPerigo,
			CountConsidered: 3,
			InvoiceCount:    1,
		},
		GeneratedAt: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  "587",
		AlertFrom: "financeiro@example.com",
		AlertTo:   []string{"socios@example.com"},
	}
}

func TestBuildConformanceAlert(t *testing.T) {
	e := BuildConformanceAlert(alertReport())
	assert.Equal(t, "[Perigo] Conformidade fiscal 01/03/2025 a 31/03/2025", e.Subject)

	body := string(e.Text)
	assert.Contains(t, body, "Sem movimento no período")
	assert.Contains(t, body, "Situação: Perigo (50%)")
	assert.Contains(t, body, "Notas: R$ 500.00 em 1 nota(s)")
	assert.Contains(t, body, "Faltam R$ 500.00 em notas")
}

func TestNotifyConformance(t *testing.T) {
	var sent []*email.Email
	var gotAddr string
	s := NewSender(testConfig())
	s.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		sent = append(sent, e)
		gotAddr = addr
		return nil
	}

	ok, err := s.NotifyConformance(alertReport())
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, sent, 1)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"socios@example.com"}, sent[0].To)

	healthy := alertReport()
	healthy.Expense.Severity = conformance.SeverityOK
	ok, err = s.NotifyConformance(healthy)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, sent, 1)
}

func TestNotifyConformance_Disabled(t *testing.T) {
	s := NewSender(&config.Config{})
	s.send = func(*email.Email, string, smtp.Auth) error {
		t.Fatal("should not send")
		return nil
	}

	ok, err := s.NotifyConformance(alertReport())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotifyConformance_SendError(t *testing.T) {
	s := NewSender(testConfig())
	s.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }

	ok, err := s.NotifyConformance(alertReport())
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
