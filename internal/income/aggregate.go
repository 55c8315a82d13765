package income

import (
	"github.com/shopspring/decimal"

	"finance/internal/money"
	"finance/pkg/models"
)

// Summary is the derived state of an income record.
type Summary struct {
	Status models.PaymentStatus
	Total  decimal.Decimal
}

// RecomputeRecordStatus derives a record's status and total from its items:
// paid when every item is paid, pending when every item is pending (including
// a record with no items), partially_paid otherwise.
func RecomputeRecordStatus(items []models.IncomeItem) Summary {
	total := decimal.Zero
	paid := 0
	for i := range items {
		total = total.Add(money.Coerce(items[i].Value))
		if items[i].IsPaid() {
			paid++
		}
	}

	status := models.PaymentPartiallyPaid
	switch paid {
	case 0:
		status = models.PaymentPending
	case len(items):
		status = models.PaymentPaid
	}

	return Summary{Status: status, Total: total}
}

// Refresh writes the derived status and total back onto record.
func Refresh(record *models.IncomeRecord) Summary {
	summary := RecomputeRecordStatus(record.Items)
	record.Status = summary.Status
	record.TotalValue = summary.Total
	return summary
}

// ReplaceItem swaps the item with the same ID in record and refreshes it.
// It reports false when no item matched.
func ReplaceItem(record *models.IncomeRecord, item models.IncomeItem) bool {
	for i := range record.Items {
		if record.Items[i].ID == item.ID {
			record.Items[i] = item
			Refresh(record)
			return true
		}
	}
	return false
}

// RemoveItem drops the item with the given ID and refreshes the record.
// record.Items is replaced by a new slice; the previous backing array is left
// untouched for anyone still holding it.
func RemoveItem(record *models.IncomeRecord, itemID string) bool {
	for i := range record.Items {
		if record.Items[i].ID == itemID {
			kept := make([]models.IncomeItem, 0, len(record.Items)-1)
			kept = append(kept, record.Items[:i]...)
			kept = append(kept, record.Items[i+1:]...)
			record.Items = kept
			renumber(record.Items)
			Refresh(record)
			return true
		}
	}
	return false
}

// AddItem appends item as the record's last installment and refreshes it.
func AddItem(record *models.IncomeRecord, item models.IncomeItem) {
	item.IncomeID = record.ID
	record.Items = append(record.Items, item)
	renumber(record.Items)
	Refresh(record)
}

// renumber keeps installment numbering and order dense after edits.
func renumber(items []models.IncomeItem) {
	for i := range items {
		items[i].OrderIndex = i
		items[i].InstallmentNumber = i + 1
		items[i].TotalInstallments = len(items)
	}
}
