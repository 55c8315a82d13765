package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finance/pkg/models"
)

// Transaction is the uniform feed row for income and expenses.
type Transaction struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Date        time.Time       `json:"date"`
	DueDate     time.Time       `json:"due_date"`
	Status      Status          `json:"status"`
}

// RecentTransactions merges the income and expenses dated within month (the
// current month when zero), newest first, keeping at most limit rows. A limit
// of zero or less keeps everything.
func RecentTransactions(items []models.IncomeItem, expenses []models.Expense, limit int, month Month) []Transaction {
	month = orCurrent(month)
	txs := collect(items, expenses, func(e *Entry) bool {
		return month.Contains(e.Date)
	})
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
	return truncate(txs, limit)
}

// PendingTransactions merges pending income and expenses due within month (the
// current month when zero), earliest due first, keeping at most limit rows.
func PendingTransactions(items []models.IncomeItem, expenses []models.Expense, limit int, month Month) []Transaction {
	month = orCurrent(month)
	txs := collect(items, expenses, func(e *Entry) bool {
		return e.Status == StatusPending && month.Contains(e.DueDate)
	})
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].DueDate.Equal(txs[j].DueDate) {
			return txs[i].DueDate.Before(txs[j].DueDate)
		}
		return txs[i].ID < txs[j].ID
	})
	return truncate(txs, limit)
}

func collect(items []models.IncomeItem, expenses []models.Expense, keep func(*Entry) bool) []Transaction {
	entries := append(IncomeEntries(items), ExpenseEntries(expenses)...)
	txs := make([]Transaction, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if !keep(e) {
			continue
		}
		txs = append(txs, Transaction{
			ID:          e.ID,
			Kind:        e.Kind,
			Description: e.Description,
			Value:       e.Value,
			Date:        e.Date,
			DueDate:     e.DueDate,
			Status:      e.Status,
		})
	}
	return txs
}

func truncate(txs []Transaction, limit int) []Transaction {
	if limit > 0 && len(txs) > limit {
		return txs[:limit]
	}
	return txs
}
