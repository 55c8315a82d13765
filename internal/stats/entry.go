package stats

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/money"
	"finance/pkg/models"
)

// Kind tells income and expense entries apart.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Status is the payment state shared by both kinds of entry.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Category fallbacks used in breakdowns.
const (
	UnnamedCategory   = "Outros"
	UncategorizedName = "Sem categoria"
)

// Entry is an income item or expense reduced to what aggregation needs.
type Entry struct {
	ID          string
	Kind        Kind
	Description string
	Value       decimal.Decimal
	Status      Status

	// Date is when the entry counts for period totals: payment date for
	// income, launch date for expenses. Pending income falls back to the due date.
	Date    time.Time
	DueDate time.Time

	Category string
}

// IncomeEntries converts income items. Values are coerced on the way in.
func IncomeEntries(items []models.IncomeItem) []Entry {
	entries := make([]Entry, 0, len(items))
	for i := range items {
		item := &items[i]
		e := Entry{
			ID:          item.ID,
			Kind:        KindIncome,
			Description: incomeDescription(item),
			Value:       money.Coerce(item.Value),
			Status:      StatusPending,
			Date:        item.DueDate,
			DueDate:     item.DueDate,
			Category:    UncategorizedName,
		}
		if item.IsPaid() && item.PaymentDate != nil {
			e.Status = StatusPaid
			e.Date = *item.PaymentDate
		}
		if item.Category != nil {
			e.Category = categoryName(item.Category.Name)
		}
		entries = append(entries, e)
	}
	return entries
}

// ExpenseEntries converts expenses. Values are coerced on the way in.
func ExpenseEntries(expenses []models.Expense) []Entry {
	entries := make([]Entry, 0, len(expenses))
	for i := range expenses {
		exp := &expenses[i]
		e := Entry{
			ID:          exp.ID,
			Kind:        KindExpense,
			Description: exp.Description,
			Value:       money.Coerce(exp.Value),
			Status:      StatusPending,
			Date:        exp.LaunchDate,
			DueDate:     exp.EffectiveDueDate(),
			Category:    UncategorizedName,
		}
		if exp.IsPaid() {
			e.Status = StatusPaid
		}
		if exp.Category != nil {
			e.Category = categoryName(exp.Category.Name)
		}
		entries = append(entries, e)
	}
	return entries
}

func incomeDescription(item *models.IncomeItem) string {
	if item.Description != "" {
		return item.Description
	}
	if item.TotalInstallments > 0 {
		return fmt.Sprintf("Parcela %d/%d", item.InstallmentNumber, item.TotalInstallments)
	}
	return "Receita"
}

func categoryName(name string) string {
	if name == "" {
		return UnnamedCategory
	}
	return name
}
