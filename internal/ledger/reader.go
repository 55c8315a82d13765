package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"finance/internal/income"
	"finance/internal/logger"
	"finance/pkg/models"
	"finance/pkg/services"
)

// RangeReader reads raw cell values from a spreadsheet range
type RangeReader interface {
	ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error)
}

// DataReader loads the bookkeeping spreadsheet as a dataset
type DataReader struct {
	sheets RangeReader
	log    zerolog.Logger
}

var _ services.DatasetSource = (*DataReader)(nil)

// NewDataReader creates a new data reader for Google Sheets
func NewDataReader(sheets RangeReader) *DataReader {
	return &DataReader{
		sheets: sheets,
		log:    logger.WithComponent("ledger-reader"),
	}
}

// Name identifies the source in logs
func (dr *DataReader) Name() string { return "sheets" }

// LoadDataset reads all four sheets. Invoices are limited to rng by issue date.
func (dr *DataReader) LoadDataset(ctx context.Context, rng models.DateRange) (*services.Dataset, error) {
	const op = "LoadDataset"

	items, err := dr.ReadIncomeItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	expenses, err := dr.ReadExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	issued, err := dr.ReadIssuedInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	received, err := dr.ReadReceivedInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ds := &services.Dataset{IncomeItems: items, Expenses: expenses}
	for _, inv := range issued {
		if rng.Contains(inv.IssueDate) {
			ds.IssuedInvoices = append(ds.IssuedInvoices, inv)
		}
	}
	for _, inv := range received {
		if rng.Contains(inv.IssueDate) {
			ds.ReceivedInvoices = append(ds.ReceivedInvoices, inv)
		}
	}

	dr.log.Info().
		Int("income_items", len(ds.IncomeItems)).
		Int("expenses", len(ds.Expenses)).
		Int("issued_invoices", len(ds.IssuedInvoices)).
		Int("received_invoices", len(ds.ReceivedInvoices)).
		Msg("Dataset loaded from spreadsheet")

	return ds, nil
}

// ReadIncomeItems reads installments from the Receitas sheet
func (dr *DataReader) ReadIncomeItems(ctx context.Context) ([]models.IncomeItem, error) {
	var items []models.IncomeItem
	err := dr.eachRow(ctx, SheetIncome, func(row []interface{}, rowNum int) error {
		item, err := dr.parseIncomeRow(row, rowNum)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

// ReadExpenses reads the Despesas sheet
func (dr *DataReader) ReadExpenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := dr.eachRow(ctx, SheetExpenses, func(row []interface{}, rowNum int) error {
		expense, err := dr.parseExpenseRow(row, rowNum)
		if err != nil {
			return err
		}
		expenses = append(expenses, expense)
		return nil
	})
	return expenses, err
}

// ReadIssuedInvoices reads the NotasEmitidas sheet
func (dr *DataReader) ReadIssuedInvoices(ctx context.Context) ([]models.IssuedInvoice, error) {
	var invoices []models.IssuedInvoice
	err := dr.eachRow(ctx, SheetIssuedInvoices, func(row []interface{}, rowNum int) error {
		inv, err := dr.parseIssuedRow(row, rowNum)
		if err != nil {
			return err
		}
		invoices = append(invoices, inv)
		return nil
	})
	return invoices, err
}

// ReadReceivedInvoices reads the NotasRecebidas sheet
func (dr *DataReader) ReadReceivedInvoices(ctx context.Context) ([]models.ReceivedInvoice, error) {
	var invoices []models.ReceivedInvoice
	err := dr.eachRow(ctx, SheetReceivedInvoices, func(row []interface{}, rowNum int) error {
		inv, err := dr.parseReceivedRow(row, rowNum)
		if err != nil {
			return err
		}
		invoices = append(invoices, inv)
		return nil
	})
	return invoices, err
}

// eachRow reads sheet and calls parse for every data row. Rows that are too
// short or fail to parse are logged and skipped.
func (dr *DataReader) eachRow(ctx context.Context, sheet string, parse func(row []interface{}, rowNum int) error) error {
	const op = "eachRow"

	dr.log.Info().Str("sheet", sheet).Msg("Reading sheet")

	values, err := dr.sheets.ReadRange(ctx, sheetRange(sheet))
	if err != nil {
		return fmt.Errorf("%s: failed to read %s sheet: %w", op, sheet, err)
	}

	if len(values) == 0 {
		dr.log.Warn().Str("sheet", sheet).Msg("Sheet is empty")
		return nil
	}

	parsed := 0
	for i, row := range values[1:] {
		rowNum := i + 2

		if len(row) < minColumns[sheet] {
			if len(row) > 0 {
				dr.log.Warn().
					Int("row", rowNum).
					Int("columns", len(row)).
					Str("sheet", sheet).
					Msg("Skipping row with insufficient columns")
			}
			continue
		}

		if err := parse(row, rowNum); err != nil {
			dr.log.Warn().
				Err(err).
				Int("row", rowNum).
				Str("sheet", sheet).
				Msg("Failed to parse row, skipping")
			continue
		}
		parsed++
	}

	dr.log.Info().
		Int("total_rows", len(values)-1).
		Int("parsed_rows", parsed).
		Str("sheet", sheet).
		Msg("Sheet read successfully")

	return nil
}

func (dr *DataReader) parseIncomeRow(row []interface{}, rowNum int) (models.IncomeItem, error) {
	const op = "parseIncomeRow"

	value, err := parseAmount(getCell(row, incomeValue))
	if err != nil {
		return models.IncomeItem{}, fmt.Errorf("%s: invalid value in row %d: %w", op, rowNum, err)
	}

	dueStr := getString(row, incomeDueDate)
	due, err := parseBrazilianDate(dueStr)
	if err != nil {
		return models.IncomeItem{}, fmt.Errorf("%s: invalid due date '%s' in row %d: %w", op, dueStr, rowNum, err)
	}

	item := models.IncomeItem{
		ID:          rowID(SheetIncome, getString(row, incomeID), rowNum),
		Description: getString(row, incomeDescription),
		Value:       value,
		DueDate:     due,
		Status:      models.PaymentPending,
		OrderIndex:  rowNum,
	}

	if payStr := getString(row, incomePaymentDate); payStr != "" {
		paidOn, err := parseBrazilianDate(payStr)
		if err != nil {
			dr.log.Warn().
				Str("date_str", payStr).
				Int("row", rowNum).
				Msg("Invalid payment date, ignoring")
		} else {
			item.PaymentDate = &paidOn
		}
	}

	// The payment date decides the status. An explicit pending status clears
	// a stale date; a paid status without a date stays pending.
	statusStr := getString(row, incomeStatus)
	if paid, known := isPaidStatus(statusStr); known {
		switch {
		case !paid && item.PaymentDate != nil:
			dr.log.Warn().
				Str("status", statusStr).
				Int("row", rowNum).
				Msg("Pending item has a payment date, clearing it")
			item.PaymentDate = nil
		case paid && item.PaymentDate == nil:
			dr.log.Warn().
				Str("status", statusStr).
				Int("row", rowNum).
				Msg("Paid item has no payment date, loading as pending")
		}
	}
	item = income.SyncStatus(item)

	if n, total, ok := parseInstallment(getString(row, incomeInstallment)); ok {
		item.InstallmentNumber = n
		item.TotalInstallments = total
	}

	if raw := getString(row, incomeDetail); raw != "" {
		if err := json.Unmarshal([]byte(raw), &item.Detail); err != nil {
			dr.log.Warn().
				Err(err).
				Int("row", rowNum).
				Msg("Invalid payment detail JSON, ignoring")
			item.Detail = models.PaymentDetail{}
		}
	}
	if bank := getString(row, incomeBank); bank != "" && item.Detail.BankID == "" {
		item.Detail.BankID = bank
	}

	if name := getString(row, incomeClient); name != "" {
		doc := getString(row, incomeClientDoc)
		id := doc
		if id == "" {
			id = name
		}
		item.Client = &models.Client{ID: id, Name: name, TaxDocument: doc}
	}
	if name := getString(row, incomeCategory); name != "" {
		item.Category = &models.IncomeCategory{ID: name, Name: name}
	}

	return item, nil
}

func (dr *DataReader) parseExpenseRow(row []interface{}, rowNum int) (models.Expense, error) {
	const op = "parseExpenseRow"

	value, err := parseAmount(getCell(row, expenseValue))
	if err != nil {
		return models.Expense{}, fmt.Errorf("%s: invalid value in row %d: %w", op, rowNum, err)
	}

	launchStr := getString(row, expenseLaunchDate)
	launch, err := parseBrazilianDate(launchStr)
	if err != nil {
		return models.Expense{}, fmt.Errorf("%s: invalid launch date '%s' in row %d: %w", op, launchStr, rowNum, err)
	}

	expense := models.Expense{
		ID:            rowID(SheetExpenses, getString(row, expenseID), rowNum),
		Description:   getString(row, expenseDescription),
		Value:         value,
		LaunchDate:    launch,
		PaymentStatus: models.ExpensePending,
	}

	if dueStr := getString(row, expenseDueDate); dueStr != "" {
		if due, err := parseBrazilianDate(dueStr); err == nil {
			expense.DueDate = &due
		} else {
			dr.log.Warn().
				Str("date_str", dueStr).
				Int("row", rowNum).
				Msg("Invalid due date, using launch date")
		}
	}

	if paid, _ := isPaidStatus(getString(row, expenseStatus)); paid {
		expense.PaymentStatus = models.ExpensePaid
	}

	if name := getString(row, expenseCategory); name != "" {
		id := name
		expense.CategoryID = &id
		expense.Category = &models.ExpenseCategory{
			ID:       name,
			Name:     name,
			IsFiscal: parseFiscalFlag(getString(row, expenseFiscal)),
		}
	}

	return expense, nil
}

func (dr *DataReader) parseIssuedRow(row []interface{}, rowNum int) (models.IssuedInvoice, error) {
	const op = "parseIssuedRow"

	dateStr := getString(row, issuedDate)
	issued, err := parseBrazilianDate(dateStr)
	if err != nil {
		return models.IssuedInvoice{}, fmt.Errorf("%s: invalid issue date '%s' in row %d: %w", op, dateStr, rowNum, err)
	}

	value, err := parseAmount(getCell(row, issuedValue))
	if err != nil {
		return models.IssuedInvoice{}, fmt.Errorf("%s: invalid value in row %d: %w", op, rowNum, err)
	}

	taxRate, err := parseAmount(getCell(row, issuedTaxRate))
	if err != nil {
		dr.log.Warn().
			Int("row", rowNum).
			Msg("Invalid ISS rate, using 0")
	}

	number := getString(row, issuedNumber)
	inv := models.IssuedInvoice{
		ID:           rowID(SheetIssuedInvoices, number, rowNum),
		Number:       number,
		Value:        value,
		TaxRate:      taxRate,
		IssueDate:    issued,
		ClientName:   getString(row, issuedClient),
		ProposalCode: getString(row, issuedProposal),
	}
	if itemID := getString(row, issuedItemID); itemID != "" {
		inv.IncomeItemID = &itemID
	}

	return inv, nil
}

func (dr *DataReader) parseReceivedRow(row []interface{}, rowNum int) (models.ReceivedInvoice, error) {
	const op = "parseReceivedRow"

	dateStr := getString(row, receivedDate)
	issued, err := parseBrazilianDate(dateStr)
	if err != nil {
		return models.ReceivedInvoice{}, fmt.Errorf("%s: invalid issue date '%s' in row %d: %w", op, dateStr, rowNum, err)
	}

	number := getString(row, receivedNumber)
	inv := models.ReceivedInvoice{
		ID:          rowID(SheetReceivedInvoices, number, rowNum),
		Number:      number,
		IssueDate:   issued,
		IssuerTaxID: getString(row, receivedIssuerTaxID),
		IssuerName:  getString(row, receivedIssuerName),
		TotalValue:  getCell(row, receivedTotal),
	}

	// text totals are Brazilian formatted; anything else is left for coercion
	if s, ok := inv.TotalValue.(string); ok {
		if total, err := parseBrazilianAmount(s); err == nil {
			inv.TotalValue = total
		} else {
			dr.log.Warn().
				Str("total_str", s).
				Int("row", rowNum).
				Msg("Unparseable invoice total, counted as 0")
		}
	}

	if launchStr := getString(row, receivedLaunchDate); launchStr != "" {
		if launch, err := parseBrazilianDate(launchStr); err == nil {
			inv.LaunchDate = launch
		}
	}

	return inv, nil
}

// rowID falls back to the sheet position when the row carries no identifier
func rowID(sheet, id string, rowNum int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s!%d", sheet, rowNum)
}
