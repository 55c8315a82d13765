package income

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"finance/pkg/models"
)

// CheckConvertible enforces the guards that must hold before a proposal is
// converted: it must be approved and must not already have an income record.
// existing is the record currently linked to the proposal, if any.
func CheckConvertible(proposal *models.Proposal, existing *models.IncomeRecord) error {
	const op = "CheckConvertible"

	if proposal == nil {
		return NewValidationError("proposal", nil, "is required")
	}
	if !proposal.IsApproved() {
		return fmt.Errorf("%s: proposal %s has status %q: %w", op, proposal.Code, proposal.Status, ErrProposalNotApproved)
	}
	if existing != nil {
		return fmt.Errorf("%s: proposal %s is linked to income %s: %w", op, proposal.Code, existing.ID, ErrAlreadyConverted)
	}
	return nil
}

// ConvertProposalToIncomeDraft builds a draft income record with one installment
// per payment condition. Value and description come from the condition, due and
// payment dates default to at, and the payment method is left for the user to
// fill in. The caller is expected to have run CheckConvertible.
func ConvertProposalToIncomeDraft(proposal *models.Proposal, at time.Time) (*models.IncomeRecordDraft, error) {
	if proposal == nil {
		return nil, NewValidationError("proposal", nil, "is required")
	}
	if len(proposal.PaymentConditions) == 0 {
		return nil, NewValidationError("payment_conditions", proposal.Code, "proposal has no payment conditions")
	}
	if at.IsZero() {
		at = today()
	}

	count := len(proposal.PaymentConditions)
	items := make([]models.IncomeItem, 0, count)
	for i, cond := range proposal.PaymentConditions {
		due := at
		paid := at
		item := models.IncomeItem{
			Value:             cond.Value,
			Description:       cond.Description,
			Status:            models.PaymentPending,
			DueDate:           due,
			PaymentDate:       &paid,
			InstallmentNumber: i + 1,
			TotalInstallments: count,
			OrderIndex:        i,
		}
		if cond.ID != "" {
			condID := cond.ID
			item.PaymentConditionID = &condID
		}
		items = append(items, item)
	}

	summary := RecomputeRecordStatus(items)
	return &models.IncomeRecordDraft{
		ProposalID:   proposal.ID,
		ProposalCode: proposal.Code,
		ClientID:     proposal.ClientID,
		Description:  fmt.Sprintf("Proposta %s", proposal.Code),
		TotalValue:   summary.Total,
		Status:       models.PaymentPending,
		Items:        items,
	}, nil
}

// FinalizeDraft validates a completed draft and turns it into an income record
// ready to persist. Every item needs a payment method. A payment date kept on
// an item marks it paid; the user clears it for installments still to come.
func FinalizeDraft(draft *models.IncomeRecordDraft) (*models.IncomeRecord, error) {
	if draft == nil {
		return nil, NewValidationError("draft", nil, "is required")
	}
	if len(draft.Items) == 0 {
		return nil, NewValidationError("items", 0, "income record needs at least one item")
	}

	var errs ValidationErrors
	for i, item := range draft.Items {
		if err := ValidateItem(item); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				ve.Field = fmt.Sprintf("items[%d].%s", i, ve.Field)
				errs = append(errs, ve)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	record := &models.IncomeRecord{
		ID:          uuid.NewString(),
		ClientID:    draft.ClientID,
		CategoryID:  draft.CategoryID,
		Description: draft.Description,
		Items:       make([]models.IncomeItem, len(draft.Items)),
	}
	if draft.ProposalID != "" {
		proposalID := draft.ProposalID
		record.ProposalID = &proposalID
	}

	for i, item := range draft.Items {
		item.ID = uuid.NewString()
		item.IncomeID = record.ID
		record.Items[i] = SyncStatus(item)
	}
	renumber(record.Items)
	Refresh(record)

	return record, nil
}
