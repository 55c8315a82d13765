package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"finance/internal/conformance"
	"finance/internal/logger"
	"finance/internal/notify"
	"finance/internal/sheets"
)

var conformanceCmd = &cobra.Command{
	Use:   "conformance",
	Short: "Report how well invoices cover revenue and expenses",
	Long: `Compute fiscal conformance for a period.

Revenue: invoices issued vs. paid legal-entity installments received in the
legal-entity bank account (LEGAL_ENTITY_BANK_ID).
Expenses: invoices received vs. paid expenses in non-fiscal categories.

Each side is classified as Conforme (100%), Alerta (90-99%) or Perigo (<90%).

Required environment variables:
  LEGAL_ENTITY_BANK_ID - Bank ID of the company account
  DATABASE_URL or GOOGLE_SHEET_URL - depending on DATA_SOURCE`,
	Example: `  # Current month
  finance conformance

  # A given month as JSON
  finance conformance --month 2025-03 --json

  # A custom period, appended to the report sheet and emailed when below 100%
  finance conformance --from 2025-01-01 --to 2025-03-31 --write-sheet --notify`,
	RunE: runConformance,
}

func init() {
	rootCmd.AddCommand(conformanceCmd)

	conformanceCmd.Flags().String("month", "", "Month to report (format: YYYY-MM)")
	conformanceCmd.Flags().String("from", "", "Start date (format: YYYY-MM-DD)")
	conformanceCmd.Flags().String("to", "", "End date (format: YYYY-MM-DD)")
	conformanceCmd.Flags().Bool("json", false, "Print the report as JSON")
	conformanceCmd.Flags().Bool("write-sheet", false, "Append the report to the REPORT_SHEET sheet")
	conformanceCmd.Flags().Bool("notify", false, "Email the report when either side is below 100%")
}

func runConformance(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("conformance-cmd")

	monthStr, _ := cmd.Flags().GetString("month")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	asJSON, _ := cmd.Flags().GetBool("json")
	writeSheet, _ := cmd.Flags().GetBool("write-sheet")
	notifyFlag, _ := cmd.Flags().GetBool("notify")

	rng, err := resolveRange(monthStr, fromStr, toStr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	source, closeSource, err := openDataSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	ds, err := source.LoadDataset(ctx, rng)
	if err != nil {
		return fmt.Errorf("failed to load %s data: %w", source.Name(), err)
	}

	report := newCalculator(cfg).Run(ds, rng)

	log.Info().
		Str("source", source.Name()).
		Str("worst", string(report.Worst())).
		Msg("Conformance computed")

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printConformance(cmd.OutOrStdout(), report)
	}

	if writeSheet {
		if cfg.GoogleSheetURL == "" {
			return fmt.Errorf("GOOGLE_SHEET_URL is required for --write-sheet")
		}
		sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
		}
		if err := sheetsService.WriteConformanceReport(ctx, cfg.ReportSheet, report); err != nil {
			return err
		}
	}

	if notifyFlag {
		if _, err := notify.NewSender(cfg).NotifyConformance(report); err != nil {
			return err
		}
	}

	return nil
}

func printConformance(out io.Writer, report conformance.Report) {
	fmt.Fprintf(out, "Período: %s a %s\n", formatDay(report.Range.From), formatDay(report.Range.To))
	printResult(out, "Receitas", report.Revenue)
	printResult(out, "Despesas", report.Expense)
}

func printResult(out io.Writer, title string, r conformance.Result) {
	if r.NotApplicable {
		fmt.Fprintf(out, "  %-9s sem movimento (notas %s)\n", title, r.Numerator.StringFixed(2))
		return
	}
	over := ""
	if r.OverCompliant {
		over = " (notas acima da base)"
	}
	fmt.Fprintf(out, "  %-9s %3d%% %-8s notas %12s / base %12s  [%d notas, %d lançamentos]%s\n",
		title, r.Percentage, r.Severity.Label(),
		r.Numerator.StringFixed(2), r.Denominator.StringFixed(2),
		r.InvoiceCount, r.CountConsidered, over)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
