package income_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/income"
	"finance/pkg/models"
)

// Example demonstrates turning an approved proposal into an income record.
func Example() {
	proposal := &models.Proposal{
		ID:       "p-1",
		Code:     "PROP-2025-014",
		ClientID: "c-1",
		Status:   models.ProposalApproved,
		PaymentConditions: []models.PaymentCondition{
			{Description: "Entrada", Percentage: decimal.NewFromInt(30), Value: decimal.NewFromInt(300)},
			{Description: "Entrega", Percentage: decimal.NewFromInt(70), Value: decimal.NewFromInt(700)},
		},
	}

	// Guards run before conversion; existing is the record already linked, if any
	if err := income.CheckConvertible(proposal, nil); err != nil {
		fmt.Println("cannot convert:", err)
		return
	}

	draft, err := income.ConvertProposalToIncomeDraft(proposal, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		fmt.Println("conversion failed:", err)
		return
	}

	fmt.Printf("%d items, total %s, status %s\n", len(draft.Items), draft.TotalValue, draft.Status)
	for _, item := range draft.Items {
		fmt.Printf("  %d/%d %s: %s\n", item.InstallmentNumber, item.TotalInstallments, item.Description, item.Value)
	}
	// Output:
	// 2 items, total 1000, status pending
	//   1/2 Entrada: 300
	//   2/2 Entrega: 700
}

// ExampleFinalizeDraft shows the validation failure reported when installments
// have no payment method yet.
func ExampleFinalizeDraft() {
	draft := &models.IncomeRecordDraft{
		ClientID: "c-1",
		Items: []models.IncomeItem{
			{Value: decimal.NewFromInt(500), DueDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	_, err := income.FinalizeDraft(draft)
	if errors.Is(err, income.ErrInvalidInput) {
		fmt.Println("rejected:", err)
	}
	// Output:
	// rejected: validation error for field 'items[0].payment_method_id': payment method is required (value: )
}
