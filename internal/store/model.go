package store

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Row types mirror the studio's database tables. Domain code only ever sees
// the pkg/models types; mapping.go converts between the two.

type clientRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:255;not null"`
	TaxDocument string `gorm:"size:32"`
}

func (clientRow) TableName() string { return "clients" }

type proposalRow struct {
	ID         string          `gorm:"primaryKey;size:36"`
	Code       string          `gorm:"size:50;not null;uniqueIndex"`
	ClientID   string          `gorm:"size:36;not null;index"`
	TotalValue decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status     string          `gorm:"size:20;not null;default:'draft'"`
	CreatedAt  time.Time

	Conditions []paymentConditionRow `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
}

func (proposalRow) TableName() string { return "proposals" }

type paymentConditionRow struct {
	ID          string          `gorm:"primaryKey;size:36"`
	ProposalID  string          `gorm:"size:36;not null;index"`
	Position    int             `gorm:"not null;default:0"`
	Description string          `gorm:"size:255"`
	Percentage  decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0"`
	Value       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

func (paymentConditionRow) TableName() string { return "payment_conditions" }

type incomeCategoryRow struct {
	ID   string `gorm:"primaryKey;size:36"`
	Name string `gorm:"size:100"`
}

func (incomeCategoryRow) TableName() string { return "income_categories" }

// at most one income record per proposal; NULLs do not collide in Postgres
type incomeRecordRow struct {
	ID          string          `gorm:"primaryKey;size:36"`
	ProposalID  *string         `gorm:"size:36;uniqueIndex"`
	CategoryID  *string         `gorm:"size:36;index"`
	ClientID    string          `gorm:"size:36;not null;index"`
	TotalValue  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Description string          `gorm:"size:255"`
	Status      string          `gorm:"size:20;not null;default:'pending';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Client   *clientRow         `gorm:"foreignKey:ClientID"`
	Category *incomeCategoryRow `gorm:"foreignKey:CategoryID"`
	Items    []incomeItemRow    `gorm:"foreignKey:IncomeID;constraint:OnDelete:CASCADE"`
}

func (incomeRecordRow) TableName() string { return "incomes" }

type incomeItemRow struct {
	ID                 string              `gorm:"primaryKey;size:36"`
	IncomeID           string              `gorm:"size:36;not null;index"`
	PaymentConditionID *string             `gorm:"size:36"`
	PaymentMethodID    string              `gorm:"size:36;not null"`
	Value              decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
	Status             string              `gorm:"size:20;not null;default:'pending';index"`
	DueDate            time.Time           `gorm:"type:date;not null;index"`
	PaymentDate        *time.Time          `gorm:"type:date;index"`
	InstallmentNumber  int                 `gorm:"not null;default:1"`
	TotalInstallments  int                 `gorm:"not null;default:1"`
	InterestRate       decimal.NullDecimal `gorm:"type:numeric(7,4)"`
	PaymentDetails     datatypes.JSON      `gorm:"type:jsonb"`
	Description        string              `gorm:"size:255"`
	OrderIndex         int                 `gorm:"not null;default:0"`
	Version            int                 `gorm:"not null;default:1"`

	Income *incomeRecordRow `gorm:"foreignKey:IncomeID"`
}

func (incomeItemRow) TableName() string { return "income_items" }

type expenseCategoryRow struct {
	ID       string `gorm:"primaryKey;size:36"`
	Name     string `gorm:"size:100"`
	IsFiscal *bool
}

func (expenseCategoryRow) TableName() string { return "expense_categories" }

type expenseRow struct {
	ID            string          `gorm:"primaryKey;size:36"`
	Description   string          `gorm:"size:255"`
	Value         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LaunchDate    time.Time       `gorm:"type:date;not null;index"`
	DueDate       *time.Time      `gorm:"type:date"`
	PaymentStatus string          `gorm:"size:20;not null;default:'pending';index"`
	CategoryID    *string         `gorm:"size:36;index"`

	Category *expenseCategoryRow `gorm:"foreignKey:CategoryID"`
}

func (expenseRow) TableName() string { return "expenses" }

type issuedInvoiceRow struct {
	ID           string          `gorm:"primaryKey;size:36"`
	Number       string          `gorm:"size:50"`
	Value        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TaxRate      decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0"`
	IssueDate    time.Time       `gorm:"type:date;not null;index"`
	IncomeItemID *string         `gorm:"size:36;index"`
	ClientName   string          `gorm:"size:255"`
	ProposalCode string          `gorm:"size:50"`
}

func (issuedInvoiceRow) TableName() string { return "issued_invoices" }

// received invoices are imported from supplier XML, so the total is kept as
// the raw text and coerced when aggregated
type receivedInvoiceRow struct {
	ID          string         `gorm:"primaryKey;size:36"`
	Number      string         `gorm:"size:50"`
	IssueDate   time.Time      `gorm:"type:date;not null;index"`
	IssuerTaxID string         `gorm:"size:20"`
	IssuerName  string         `gorm:"size:255"`
	TotalValue  string         `gorm:"size:32"`
	LaunchDate  *time.Time     `gorm:"type:date"`
	Items       datatypes.JSON `gorm:"type:jsonb"`
}

func (receivedInvoiceRow) TableName() string { return "received_invoices" }

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&clientRow{},
		&proposalRow{},
		&paymentConditionRow{},
		&incomeCategoryRow{},
		&incomeRecordRow{},
		&incomeItemRow{},
		&expenseCategoryRow{},
		&expenseRow{},
		&issuedInvoiceRow{},
		&receivedInvoiceRow{},
	)
}
