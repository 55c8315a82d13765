package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the payment state of an expense.
type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "pending"
	ExpensePaid    ExpenseStatus = "paid"
)

// ExpenseCategory classifies expenses. IsFiscal is nullable in storage: nil means
// the flag was never set.
type ExpenseCategory struct {
	ID       string
	Name     string
	IsFiscal *bool
}

// Expense is an outgoing payment. The engine never mutates expenses.
type Expense struct {
	ID            string
	Description   string
	Value         decimal.Decimal
	LaunchDate    time.Time
	DueDate       *time.Time
	PaymentStatus ExpenseStatus
	CategoryID    *string

	// Resolved by the data layer; nil when the category is missing or not loaded
	Category *ExpenseCategory
}

// IsPaid reports whether the expense has been paid.
func (e *Expense) IsPaid() bool {
	return e.PaymentStatus == ExpensePaid
}

// EffectiveDueDate returns the due date, falling back to the launch date.
func (e *Expense) EffectiveDueDate() time.Time {
	if e.DueDate != nil {
		return *e.DueDate
	}
	return e.LaunchDate
}
