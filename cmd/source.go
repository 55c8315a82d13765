package cmd

import (
	"context"
	"fmt"
	"time"

	"finance/internal/config"
	"finance/internal/conformance"
	"finance/internal/ledger"
	"finance/internal/logger"
	"finance/internal/sheets"
	"finance/internal/stats"
	"finance/internal/store"
	"finance/pkg/models"
	"finance/pkg/services"
)

// loadConfig reads the environment configuration for a command
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openDataSource builds the dataset source selected by DATA_SOURCE. The
// returned close func is never nil.
func openDataSource(ctx context.Context, cfg *config.Config) (services.DatasetSource, func(), error) {
	const op = "openDataSource"
	log := logger.WithComponent("source")

	switch cfg.DataSource {
	case config.SourceSheets:
		sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("%s: failed to initialize Google Sheets service: %w", op, err)
		}
		required := []string{ledger.SheetIncome, ledger.SheetExpenses, ledger.SheetIssuedInvoices, ledger.SheetReceivedInvoices}
		if err := validateSheetsExist(ctx, sheetsService, required); err != nil {
			return nil, func() {}, fmt.Errorf("%s: sheet validation failed: %w", op, err)
		}
		log.Info().Strs("sheets", required).Msg("Using spreadsheet data source")
		return ledger.NewDataReader(sheetsService), func() {}, nil

	default:
		st, err := openStore(cfg)
		if err != nil {
			return nil, func() {}, fmt.Errorf("%s: %w", op, err)
		}
		log.Info().Msg("Using database data source")
		return st, func() { _ = st.Close() }, nil
	}
}

// openStore connects to Postgres; income mutations always need it
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for this command")
	}
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

// validateSheetsExist checks that all required sheets exist in the spreadsheet
func validateSheetsExist(ctx context.Context, sheetsService *sheets.Service, requiredSheets []string) error {
	const op = "validateSheetsExist"
	log := logger.WithComponent("source-validation")

	for _, sheetName := range requiredSheets {
		log.Debug().Str("sheet", sheetName).Msg("Checking sheet existence")

		if _, err := sheetsService.ReadRange(ctx, sheetName+"!A1:A1"); err != nil {
			return fmt.Errorf("%s: sheet '%s' does not exist or is not accessible: %w", op, sheetName, err)
		}
	}

	return nil
}

// newCalculator builds a conformance calculator from configuration
func newCalculator(cfg *config.Config) *conformance.Calculator {
	opts := conformance.ExpenseOptions{FiscalDefault: conformance.UnsetIsNonFiscal}
	if cfg.UnsetCategoryIsFiscal {
		opts.FiscalDefault = conformance.UnsetIsFiscal
	}
	return conformance.NewCalculator(cfg.LegalEntityBankID, opts)
}

// resolveRange turns --month or --from/--to into a date range. With no flags
// it is the current month.
func resolveRange(monthStr, fromStr, toStr string) (models.DateRange, error) {
	if monthStr != "" {
		if fromStr != "" || toStr != "" {
			return models.DateRange{}, fmt.Errorf("--month cannot be combined with --from/--to")
		}
		m, err := stats.ParseMonth(monthStr)
		if err != nil {
			return models.DateRange{}, err
		}
		return m.Range(), nil
	}

	if fromStr == "" && toStr == "" {
		return stats.CurrentMonth().Range(), nil
	}

	var rng models.DateRange
	var err error
	if fromStr != "" {
		if rng.From, err = parseDay(fromStr); err != nil {
			return models.DateRange{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if toStr != "" {
		if rng.To, err = parseDay(toStr); err != nil {
			return models.DateRange{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return models.DateRange{}, fmt.Errorf("--to %s is before --from %s", toStr, fromStr)
	}
	return rng, nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD: %w", err)
	}
	return t, nil
}
