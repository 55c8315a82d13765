package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"finance/internal/income"
	"finance/internal/logger"
	"finance/pkg/models"
	"finance/pkg/services"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when an item changed since it was read
	ErrConcurrentModification = errors.New("item was modified concurrently")
)

// Store is the Postgres-backed dataset source and income store
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

var (
	_ services.DatasetSource = (*Store)(nil)
	_ services.IncomeStore   = (*Store)(nil)
)

// Open connects to Postgres and migrates the schema
func Open(dsn string) (*Store, error) {
	const op = "Open"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect: %w", op, err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("%s: failed to migrate: %w", op, err)
	}

	return New(db), nil
}

// New wraps an existing connection
func New(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		log: logger.WithComponent("store"),
	}
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Name identifies the source in logs
func (s *Store) Name() string { return "postgres" }

// LoadDataset reads every income item and expense with their associations,
// plus the invoices issued within rng.
func (s *Store) LoadDataset(ctx context.Context, rng models.DateRange) (*services.Dataset, error) {
	const op = "LoadDataset"

	db := s.db.WithContext(ctx)
	ds := &services.Dataset{}

	var itemRows []incomeItemRow
	err := db.
		Preload("Income.Client").
		Preload("Income.Category").
		Order("due_date ASC, order_index ASC").
		Find(&itemRows).Error
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load income items: %w", op, err)
	}
	for i := range itemRows {
		item, err := itemToModel(&itemRows[i])
		if err != nil {
			s.log.Warn().Err(err).Str("item_id", itemRows[i].ID).Msg("Skipping income item with unreadable payment details")
			continue
		}
		ds.IncomeItems = append(ds.IncomeItems, item)
	}

	var expenseRows []expenseRow
	if err := db.Preload("Category").Order("launch_date ASC").Find(&expenseRows).Error; err != nil {
		return nil, fmt.Errorf("%s: failed to load expenses: %w", op, err)
	}
	for i := range expenseRows {
		ds.Expenses = append(ds.Expenses, expenseToModel(&expenseRows[i]))
	}

	var issuedRows []issuedInvoiceRow
	if err := db.Scopes(issuedWithin(rng)).Order("issue_date ASC").Find(&issuedRows).Error; err != nil {
		return nil, fmt.Errorf("%s: failed to load issued invoices: %w", op, err)
	}
	for i := range issuedRows {
		ds.IssuedInvoices = append(ds.IssuedInvoices, issuedToModel(&issuedRows[i]))
	}

	var receivedRows []receivedInvoiceRow
	if err := db.Scopes(issuedWithin(rng)).Order("issue_date ASC").Find(&receivedRows).Error; err != nil {
		return nil, fmt.Errorf("%s: failed to load received invoices: %w", op, err)
	}
	for i := range receivedRows {
		inv, ok := receivedToModel(&receivedRows[i])
		if !ok {
			s.log.Warn().Str("invoice_id", inv.ID).Msg("Received invoice has unreadable line items, ignoring them")
		}
		ds.ReceivedInvoices = append(ds.ReceivedInvoices, inv)
	}

	s.log.Info().
		Int("income_items", len(ds.IncomeItems)).
		Int("expenses", len(ds.Expenses)).
		Int("issued_invoices", len(ds.IssuedInvoices)).
		Int("received_invoices", len(ds.ReceivedInvoices)).
		Msg("Dataset loaded from database")

	return ds, nil
}

// issuedWithin limits a query to rows whose issue_date falls in rng
func issuedWithin(rng models.DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !rng.From.IsZero() {
			db = db.Where("issue_date >= ?", rng.From.Format("2006-01-02"))
		}
		if !rng.To.IsZero() {
			db = db.Where("issue_date <= ?", rng.To.Format("2006-01-02"))
		}
		return db
	}
}

// FindProposalByCode loads a proposal with its ordered payment conditions
func (s *Store) FindProposalByCode(ctx context.Context, code string) (*models.Proposal, error) {
	const op = "FindProposalByCode"

	var row proposalRow
	err := s.db.WithContext(ctx).
		Preload("Conditions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("code = ?", code).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: proposal %s: %w", op, code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return proposalToModel(&row), nil
}

// FindIncomeByProposal returns nil when the proposal has no income record
func (s *Store) FindIncomeByProposal(ctx context.Context, proposalID string) (*models.IncomeRecord, error) {
	const op = "FindIncomeByProposal"

	var row incomeRecordRow
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("proposal_id = ?", proposalID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := recordToModel(&row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// CreateIncomeRecord inserts the record and its items in one transaction and
// stores the total recalculated from the items.
func (s *Store) CreateIncomeRecord(ctx context.Context, record *models.IncomeRecord) error {
	const op = "CreateIncomeRecord"

	row, err := recordToRow(record)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		if len(row.Items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&row.Items).Error; err != nil {
				return err
			}
		}
		total, err := sumItems(tx, row.ID)
		if err != nil {
			return err
		}
		record.TotalValue = total
		return tx.Model(&incomeRecordRow{}).Where("id = ?", row.ID).Update("total_value", total).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s: %w", op, income.ErrAlreadyConverted)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info().
		Str("income_id", record.ID).
		Int("items", len(record.Items)).
		Str("total", record.TotalValue.StringFixed(2)).
		Msg("Income record created")

	return nil
}

// FindIncomeItem loads a single item
func (s *Store) FindIncomeItem(ctx context.Context, itemID string) (*models.IncomeItem, error) {
	const op = "FindIncomeItem"

	var row incomeItemRow
	err := s.db.WithContext(ctx).
		Preload("Income.Client").
		Preload("Income.Category").
		First(&row, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: item %s: %w", op, itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	item, err := itemToModel(&row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// SaveItemPayment writes status and payment date when the stored version
// still matches item.Version, then refreshes the owning record. On success
// item.Version holds the new version.
func (s *Store) SaveItemPayment(ctx context.Context, item *models.IncomeItem) error {
	const op = "SaveItemPayment"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&incomeItemRow{}).
			Where("id = ? AND version = ?", item.ID, item.Version).
			Updates(map[string]interface{}{
				"status":       string(item.Status),
				"payment_date": item.PaymentDate,
				"version":      gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentModification
		}
		return refreshRecord(tx, item.IncomeID)
	})
	if err != nil {
		return fmt.Errorf("%s: item %s: %w", op, item.ID, err)
	}

	item.Version++

	s.log.Info().
		Str("item_id", item.ID).
		Str("status", string(item.Status)).
		Int("version", item.Version).
		Msg("Item payment saved")

	return nil
}

// refreshRecord recomputes a record's status and total from its items
func refreshRecord(tx *gorm.DB, incomeID string) error {
	var rows []incomeItemRow
	if err := tx.Where("income_id = ?", incomeID).Find(&rows).Error; err != nil {
		return err
	}

	items := make([]models.IncomeItem, 0, len(rows))
	for i := range rows {
		items = append(items, income.SyncStatus(models.IncomeItem{
			Value:       rows[i].Value,
			PaymentDate: rows[i].PaymentDate,
		}))
	}
	summary := income.RecomputeRecordStatus(items)

	return tx.Model(&incomeRecordRow{}).
		Where("id = ?", incomeID).
		Updates(map[string]interface{}{
			"status":      string(summary.Status),
			"total_value": summary.Total,
		}).Error
}

// sumItems sums the item values of a record inside tx
func sumItems(tx *gorm.DB, incomeID string) (decimal.Decimal, error) {
	var total string
	err := tx.Model(&incomeItemRow{}).
		Where("income_id = ?", incomeID).
		Select("COALESCE(SUM(value), 0)::text").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(total)
}
