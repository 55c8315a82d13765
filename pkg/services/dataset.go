package services

import (
	"context"

	"finance/pkg/models"
)

// Dataset is the already-materialized input of the reconciliation engine.
type Dataset struct {
	IncomeItems      []models.IncomeItem
	Expenses         []models.Expense
	IssuedInvoices   []models.IssuedInvoice
	ReceivedInvoices []models.ReceivedInvoice
}

// DatasetSource loads the records the engine works on. Implementations resolve
// item clients/categories and expense categories before returning.
type DatasetSource interface {
	// Name identifies the backend in logs ("postgres", "sheets").
	Name() string

	// LoadDataset returns every income item and expense, plus the invoices
	// issued within rng. Income and expenses are not range-filtered because
	// running balances and rolling series need history.
	LoadDataset(ctx context.Context, rng models.DateRange) (*Dataset, error)
}

// IncomeStore persists proposals' income records and item lifecycle changes.
type IncomeStore interface {
	// FindProposalByCode loads a proposal with its payment conditions.
	FindProposalByCode(ctx context.Context, code string) (*models.Proposal, error)

	// FindIncomeByProposal returns the income record linked to a proposal, or
	// nil when there is none.
	FindIncomeByProposal(ctx context.Context, proposalID string) (*models.IncomeRecord, error)

	// CreateIncomeRecord stores a finalized record and its items in one
	// transaction. The stored total is recalculated from the items.
	CreateIncomeRecord(ctx context.Context, record *models.IncomeRecord) error

	// FindIncomeItem loads a single item.
	FindIncomeItem(ctx context.Context, itemID string) (*models.IncomeItem, error)

	// SaveItemPayment writes an item's payment state when its stored version
	// still matches, then refreshes the owning record's status and total.
	SaveItemPayment(ctx context.Context, item *models.IncomeItem) error
}
