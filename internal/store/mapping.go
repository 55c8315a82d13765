package store

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"finance/internal/income"
	"finance/pkg/models"
)

func proposalToModel(row *proposalRow) *models.Proposal {
	p := &models.Proposal{
		ID:         row.ID,
		Code:       row.Code,
		ClientID:   row.ClientID,
		TotalValue: row.TotalValue,
		Status:     models.ProposalStatus(row.Status),
		CreatedAt:  row.CreatedAt,
	}
	for _, c := range row.Conditions {
		p.PaymentConditions = append(p.PaymentConditions, models.PaymentCondition{
			ID:          c.ID,
			Description: c.Description,
			Percentage:  c.Percentage,
			Value:       c.Value,
		})
	}
	return p
}

func recordToModel(row *incomeRecordRow) (*models.IncomeRecord, error) {
	rec := &models.IncomeRecord{
		ID:          row.ID,
		ProposalID:  row.ProposalID,
		CategoryID:  row.CategoryID,
		ClientID:    row.ClientID,
		TotalValue:  row.TotalValue,
		Description: row.Description,
		Status:      models.PaymentStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	for i := range row.Items {
		item, err := itemToModel(&row.Items[i])
		if err != nil {
			return nil, err
		}
		rec.Items = append(rec.Items, item)
	}
	if len(rec.Items) > 0 {
		income.Refresh(rec)
	}
	return rec, nil
}

func recordToRow(rec *models.IncomeRecord) (*incomeRecordRow, error) {
	row := &incomeRecordRow{
		ID:          rec.ID,
		ProposalID:  rec.ProposalID,
		CategoryID:  rec.CategoryID,
		ClientID:    rec.ClientID,
		TotalValue:  rec.TotalValue,
		Description: rec.Description,
		Status:      string(rec.Status),
	}
	for i := range rec.Items {
		item, err := itemToRow(&rec.Items[i])
		if err != nil {
			return nil, err
		}
		row.Items = append(row.Items, *item)
	}
	return row, nil
}

// itemToModel maps an item row. Client and category come from the preloaded
// parent record when present.
func itemToModel(row *incomeItemRow) (models.IncomeItem, error) {
	item := models.IncomeItem{
		ID:                 row.ID,
		IncomeID:           row.IncomeID,
		PaymentConditionID: row.PaymentConditionID,
		PaymentMethodID:    row.PaymentMethodID,
		Value:              row.Value,
		Status:             models.PaymentStatus(row.Status),
		DueDate:            row.DueDate,
		PaymentDate:        row.PaymentDate,
		InstallmentNumber:  row.InstallmentNumber,
		TotalInstallments:  row.TotalInstallments,
		Description:        row.Description,
		OrderIndex:         row.OrderIndex,
		Version:            row.Version,
	}
	if row.InterestRate.Valid {
		rate := row.InterestRate.Decimal
		item.InterestRate = &rate
	}
	if len(row.PaymentDetails) > 0 {
		if err := json.Unmarshal(row.PaymentDetails, &item.Detail); err != nil {
			return models.IncomeItem{}, fmt.Errorf("item %s: %w", row.ID, err)
		}
	}

	if row.Income != nil {
		if row.Income.Client != nil {
			item.Client = &models.Client{
				ID:          row.Income.Client.ID,
				Name:        row.Income.Client.Name,
				TaxDocument: row.Income.Client.TaxDocument,
			}
		}
		if row.Income.Category != nil {
			item.Category = &models.IncomeCategory{
				ID:   row.Income.Category.ID,
				Name: row.Income.Category.Name,
			}
		}
	}
	// legacy rows may carry a status that disagrees with the payment date
	return income.SyncStatus(item), nil
}

func itemToRow(item *models.IncomeItem) (*incomeItemRow, error) {
	row := &incomeItemRow{
		ID:                 item.ID,
		IncomeID:           item.IncomeID,
		PaymentConditionID: item.PaymentConditionID,
		PaymentMethodID:    item.PaymentMethodID,
		Value:              item.Value,
		Status:             string(item.Status),
		DueDate:            item.DueDate,
		PaymentDate:        item.PaymentDate,
		InstallmentNumber:  item.InstallmentNumber,
		TotalInstallments:  item.TotalInstallments,
		Description:        item.Description,
		OrderIndex:         item.OrderIndex,
		Version:            item.Version,
	}
	if row.Version == 0 {
		row.Version = 1
	}
	if item.InterestRate != nil {
		row.InterestRate = decimal.NewNullDecimal(*item.InterestRate)
	}
	if !item.Detail.IsZero() {
		raw, err := json.Marshal(item.Detail)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		row.PaymentDetails = datatypes.JSON(raw)
	}
	return row, nil
}

func expenseToModel(row *expenseRow) models.Expense {
	e := models.Expense{
		ID:            row.ID,
		Description:   row.Description,
		Value:         row.Value,
		LaunchDate:    row.LaunchDate,
		DueDate:       row.DueDate,
		PaymentStatus: models.ExpenseStatus(row.PaymentStatus),
		CategoryID:    row.CategoryID,
	}
	if row.Category != nil {
		e.Category = &models.ExpenseCategory{
			ID:       row.Category.ID,
			Name:     row.Category.Name,
			IsFiscal: row.Category.IsFiscal,
		}
	}
	return e
}

func issuedToModel(row *issuedInvoiceRow) models.IssuedInvoice {
	return models.IssuedInvoice{
		ID:           row.ID,
		Number:       row.Number,
		Value:        row.Value,
		TaxRate:      row.TaxRate,
		IssueDate:    row.IssueDate,
		IncomeItemID: row.IncomeItemID,
		ClientName:   row.ClientName,
		ProposalCode: row.ProposalCode,
	}
}

// receivedToModel keeps the raw total; unreadable line items are dropped
// because nothing aggregates them.
func receivedToModel(row *receivedInvoiceRow) (models.ReceivedInvoice, bool) {
	inv := models.ReceivedInvoice{
		ID:          row.ID,
		Number:      row.Number,
		IssueDate:   row.IssueDate,
		IssuerTaxID: row.IssuerTaxID,
		IssuerName:  row.IssuerName,
		TotalValue:  row.TotalValue,
	}
	if row.LaunchDate != nil {
		inv.LaunchDate = *row.LaunchDate
	}
	if len(row.Items) == 0 {
		return inv, true
	}
	if err := json.Unmarshal(row.Items, &inv.Items); err != nil {
		return inv, false
	}
	return inv, true
}
