package income

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/pkg/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func approvedProposal() *models.Proposal {
	return &models.Proposal{
		ID:         "p-1",
		Code:       "PROP-2025-014",
		ClientID:   "c-1",
		TotalValue: dec("1000"),
		Status:     models.ProposalApproved,
		PaymentConditions: []models.PaymentCondition{
			{ID: "pc-1", Description: "Entrada", Percentage: dec("30"), Value: dec("300")},
			{ID: "pc-2", Description: "Entrega final", Percentage: dec("70"), Value: dec("700")},
		},
	}
}

func TestRecordPaymentThenClear(t *testing.T) {
	item := models.IncomeItem{ID: "i-1", Value: dec("300"), Status: models.PaymentPending, DueDate: date(2025, 3, 10)}

	paidOn := date(2025, 3, 12)
	paid := RecordPayment(item, &paidOn)
	assert.Equal(t, models.PaymentPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, paidOn, *paid.PaymentDate)
	assert.Nil(t, item.PaymentDate, "argument must not be modified")

	cleared := ClearPayment(paid)
	assert.Equal(t, models.PaymentPending, cleared.Status)
	assert.Nil(t, cleared.PaymentDate)
	assert.Equal(t, item, cleared)
}

func TestRecordPayment_DefaultsToToday(t *testing.T) {
	orig := Now
	Now = func() time.Time { return time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC) }
	defer func() { Now = orig }()

	paid := RecordPayment(models.IncomeItem{Value: dec("10")}, nil)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, date(2025, 6, 15), *paid.PaymentDate)
	assert.Equal(t, models.PaymentPaid, paid.Status)
}

func TestApplyEdit_KeepsStatus(t *testing.T) {
	paidOn := date(2025, 1, 5)
	item := models.IncomeItem{Value: dec("100"), Status: models.PaymentPaid, PaymentDate: &paidOn}

	newValue := dec("150")
	newDue := date(2025, 2, 1)
	method := "pm-pix"
	edited, err := ApplyEdit(item, ItemEdit{Value: &newValue, DueDate: &newDue, PaymentMethodID: &method})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, edited.Status)
	assert.True(t, edited.Value.Equal(newValue))
	assert.Equal(t, newDue, edited.DueDate)
	assert.Equal(t, "pm-pix", edited.PaymentMethodID)

	zero := decimal.Zero
	_, err = ApplyEdit(item, ItemEdit{Value: &zero})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecomputeRecordStatus(t *testing.T) {
	paidOn := date(2025, 1, 5)
	paid := models.IncomeItem{Value: dec("100"), Status: models.PaymentPaid, PaymentDate: &paidOn}
	pending := models.IncomeItem{Value: dec("50.5"), Status: models.PaymentPending}

	tests := []struct {
		name   string
		items  []models.IncomeItem
		status models.PaymentStatus
		total  string
	}{
		{"no items", nil, models.PaymentPending, "0"},
		{"all pending", []models.IncomeItem{pending, pending}, models.PaymentPending, "101"},
		{"all paid", []models.IncomeItem{paid, paid}, models.PaymentPaid, "200"},
		{"mixed", []models.IncomeItem{paid, pending}, models.PaymentPartiallyPaid, "150.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecomputeRecordStatus(tt.items)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.total, got.Total.String())
		})
	}
}

func TestRecordMutationsRefresh(t *testing.T) {
	record := &models.IncomeRecord{ID: "r-1"}
	AddItem(record, models.IncomeItem{ID: "a", Value: dec("100"), Status: models.PaymentPending})
	AddItem(record, models.IncomeItem{ID: "b", Value: dec("200"), Status: models.PaymentPending})
	assert.Equal(t, "300", record.TotalValue.String())
	assert.Equal(t, models.PaymentPending, record.Status)
	assert.Equal(t, 2, record.Items[1].InstallmentNumber)
	assert.Equal(t, "r-1", record.Items[0].IncomeID)

	paidOn := date(2025, 4, 1)
	require.True(t, ReplaceItem(record, RecordPayment(record.Items[0], &paidOn)))
	assert.Equal(t, models.PaymentPartiallyPaid, record.Status)

	require.True(t, RemoveItem(record, "b"))
	assert.Equal(t, models.PaymentPaid, record.Status)
	assert.Equal(t, "100", record.TotalValue.String())
	assert.Equal(t, 1, record.Items[0].TotalInstallments)

	assert.False(t, RemoveItem(record, "missing"))
	assert.False(t, ReplaceItem(record, models.IncomeItem{ID: "missing"}))
}

func TestRemoveItem_LeavesPreviousSliceIntact(t *testing.T) {
	record := &models.IncomeRecord{Items: []models.IncomeItem{
		{ID: "a", Value: decimal.NewFromInt(100)},
		{ID: "b", Value: decimal.NewFromInt(200)},
		{ID: "c", Value: decimal.NewFromInt(300)},
	}}
	before := record.Items

	require.True(t, RemoveItem(record, "a"))
	require.Len(t, record.Items, 2)
	assert.Equal(t, "b", record.Items[0].ID)
	assert.Equal(t, "500", record.TotalValue.String())

	assert.Equal(t, []string{"a", "b", "c"}, []string{before[0].ID, before[1].ID, before[2].ID})
	assert.Zero(t, before[1].TotalInstallments, "renumbering only touches the new slice")
}

func TestConvertProposalToIncomeDraft(t *testing.T) {
	at := date(2025, 5, 20)
	draft, err := ConvertProposalToIncomeDraft(approvedProposal(), at)
	require.NoError(t, err)

	require.Len(t, draft.Items, 2)
	assert.Equal(t, "1000", draft.TotalValue.String())
	assert.Equal(t, models.PaymentPending, draft.Status)
	assert.Equal(t, "p-1", draft.ProposalID)
	assert.Equal(t, "c-1", draft.ClientID)

	first, second := draft.Items[0], draft.Items[1]
	assert.Equal(t, "300", first.Value.String())
	assert.Equal(t, "700", second.Value.String())
	assert.Equal(t, "Entrada", first.Description)
	assert.Equal(t, at, first.DueDate)
	require.NotNil(t, first.PaymentDate)
	assert.Equal(t, at, *first.PaymentDate)
	assert.Empty(t, first.PaymentMethodID)
	assert.Equal(t, 1, first.InstallmentNumber)
	assert.Equal(t, 2, second.InstallmentNumber)
	assert.Equal(t, 2, second.TotalInstallments)
	require.NotNil(t, second.PaymentConditionID)
	assert.Equal(t, "pc-2", *second.PaymentConditionID)
}

func TestConvertProposalToIncomeDraft_NoConditions(t *testing.T) {
	p := approvedProposal()
	p.PaymentConditions = nil

	_, err := ConvertProposalToIncomeDraft(p, date(2025, 5, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "payment_conditions", ve.Field)
}

func TestCheckConvertible(t *testing.T) {
	p := approvedProposal()
	assert.NoError(t, CheckConvertible(p, nil))
	assert.ErrorIs(t, CheckConvertible(p, &models.IncomeRecord{ID: "r-9"}), ErrAlreadyConverted)

	p.Status = models.ProposalSent
	assert.ErrorIs(t, CheckConvertible(p, nil), ErrProposalNotApproved)
	assert.ErrorIs(t, CheckConvertible(nil, nil), ErrInvalidInput)
}

func TestFinalizeDraft(t *testing.T) {
	draft, err := ConvertProposalToIncomeDraft(approvedProposal(), date(2025, 5, 20))
	require.NoError(t, err)

	_, err = FinalizeDraft(draft)
	require.Error(t, err, "payment method is still missing")
	assert.ErrorIs(t, err, ErrInvalidInput)
	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)
	assert.Equal(t, "items[0].payment_method_id", errs[0].Field)

	for i := range draft.Items {
		draft.Items[i].PaymentMethodID = "pm-pix"
	}
	// Second installment is still to be received
	draft.Items[1].PaymentDate = nil

	record, err := FinalizeDraft(draft)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	require.NotNil(t, record.ProposalID)
	assert.Equal(t, "p-1", *record.ProposalID)
	assert.Equal(t, "1000", record.TotalValue.String())
	assert.Equal(t, models.PaymentPartiallyPaid, record.Status)
	for _, item := range record.Items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, record.ID, item.IncomeID)
		assert.Equal(t, item.PaymentDate != nil, item.IsPaid())
	}
}
