package income

import (
	"time"

	"github.com/shopspring/decimal"

	"finance/pkg/models"
)

// Now is the clock used when a payment is recorded without an explicit date.
var Now = time.Now

// RecordPayment marks item as paid on paymentDate, or today when paymentDate is
// nil. The item is returned as a modified copy; the argument is left untouched.
func RecordPayment(item models.IncomeItem, paymentDate *time.Time) models.IncomeItem {
	date := today()
	if paymentDate != nil && !paymentDate.IsZero() {
		date = *paymentDate
	}
	item.PaymentDate = &date
	item.Status = models.PaymentPaid
	return item
}

// ClearPayment removes the payment date and moves item back to pending.
func ClearPayment(item models.IncomeItem) models.IncomeItem {
	item.PaymentDate = nil
	item.Status = models.PaymentPending
	return item
}

// SyncStatus re-derives an item's status from its payment date. Loaders call it
// on stored items so paid ⇔ payment date set holds even for legacy rows.
func SyncStatus(item models.IncomeItem) models.IncomeItem {
	if item.PaymentDate != nil {
		item.Status = models.PaymentPaid
	} else {
		item.Status = models.PaymentPending
	}
	return item
}

// ItemEdit holds the editable fields of an item; nil fields are left as they are.
type ItemEdit struct {
	Value           *decimal.Decimal
	DueDate         *time.Time
	PaymentMethodID *string
	Detail          *models.PaymentDetail
	Description     *string
	InterestRate    *decimal.Decimal
}

// ApplyEdit applies edit to item. Editing never changes the payment status.
func ApplyEdit(item models.IncomeItem, edit ItemEdit) (models.IncomeItem, error) {
	if edit.Value != nil {
		if !edit.Value.IsPositive() {
			return item, NewValidationError("value", edit.Value.String(), "must be greater than zero")
		}
		item.Value = *edit.Value
	}
	if edit.DueDate != nil {
		if edit.DueDate.IsZero() {
			return item, NewValidationError("due_date", edit.DueDate, "is required")
		}
		item.DueDate = *edit.DueDate
	}
	if edit.PaymentMethodID != nil {
		item.PaymentMethodID = *edit.PaymentMethodID
	}
	if edit.Detail != nil {
		item.Detail = *edit.Detail
	}
	if edit.Description != nil {
		item.Description = *edit.Description
	}
	if edit.InterestRate != nil {
		rate := *edit.InterestRate
		item.InterestRate = &rate
	}
	return item, nil
}

// ValidateItem checks the fields an item needs before it can be persisted.
func ValidateItem(item models.IncomeItem) error {
	if item.PaymentMethodID == "" {
		return NewValidationError("payment_method_id", item.PaymentMethodID, "payment method is required")
	}
	if !item.Value.IsPositive() {
		return NewValidationError("value", item.Value.String(), "must be greater than zero")
	}
	if item.DueDate.IsZero() {
		return NewValidationError("due_date", item.DueDate, "is required")
	}
	return nil
}

func today() time.Time {
	y, m, d := Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
