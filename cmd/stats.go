package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"finance/internal/logger"
	"finance/internal/sheets"
	"finance/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the monthly dashboard",
	Long: `Show the dashboard for a month: paid income and expenses with growth over the
previous month, pending amounts, category breakdowns, the rolling cash flow,
the running balance, and the recent and pending transaction feeds.

Required environment variables:
  DATABASE_URL or GOOGLE_SHEET_URL - depending on DATA_SOURCE`,
	Example: `  # Current month
  finance stats

  # March 2025 as JSON with up to 20 feed entries
  finance stats --month 2025-03 --limit 20 --json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("month", "", "Month to show (format: YYYY-MM, default: current month)")
	statsCmd.Flags().Int("limit", 10, "Maximum entries per transaction feed (0 for all)")
	statsCmd.Flags().Bool("json", false, "Print the dashboard as JSON")
	statsCmd.Flags().String("write-flow", "", "Append the rolling flow to the named sheet")
}

func runStats(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("stats-cmd")

	monthStr, _ := cmd.Flags().GetString("month")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	flowSheet, _ := cmd.Flags().GetString("write-flow")

	month := stats.CurrentMonth()
	if monthStr != "" {
		m, err := stats.ParseMonth(monthStr)
		if err != nil {
			return err
		}
		month = m
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

	ds, err := source.LoadDataset(ctx, month.Range())
	if err != nil {
		return fmt.Errorf("failed to load %s data: %w", source.Name(), err)
	}

	dashboard := stats.BuildDashboard(ds, month, limit)

	log.Info().
		Str("source", source.Name()).
		Str("period", dashboard.Stats.Period).
		Msg("Dashboard built")

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), dashboard); err != nil {
			return err
		}
	} else {
		printDashboard(cmd.OutOrStdout(), dashboard)
	}

	if flowSheet != "" {
		if cfg.GoogleSheetURL == "" {
			return fmt.Errorf("GOOGLE_SHEET_URL is required for --write-flow")
		}
		sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
		}
		if err := sheetsService.WriteFlow(ctx, flowSheet, dashboard.Flow); err != nil {
			return err
		}
	}

	return nil
}

func printDashboard(out io.Writer, d stats.Dashboard) {
	s := d.Stats
	fmt.Fprintf(out, "Mês %s\n", s.Month.Label())
	fmt.Fprintf(out, "  Receitas  %12s  (%s%% vs. mês anterior)\n", s.Income.StringFixed(2), s.IncomeGrowth.StringFixed(2))
	fmt.Fprintf(out, "  Despesas  %12s  (%s%% vs. mês anterior)\n", s.Expense.StringFixed(2), s.ExpenseGrowth.StringFixed(2))
	fmt.Fprintf(out, "  Resultado %12s\n", s.Net.StringFixed(2))
	fmt.Fprintf(out, "  A receber %12s   A pagar %12s\n", s.PendingIncome.StringFixed(2), s.PendingExpense.StringFixed(2))
	fmt.Fprintf(out, "  Saldo acumulado %s\n", d.Balance.StringFixed(2))

	printCategories(out, "Receitas por categoria", s.IncomeByCategory)
	printCategories(out, "Despesas por categoria", s.ExpenseByCategory)

	fmt.Fprintln(out, "\nFluxo de caixa")
	for _, p := range d.Flow {
		fmt.Fprintf(out, "  %-7s %12s %12s %12s\n", p.Label, p.Income.StringFixed(2), p.Expense.StringFixed(2), p.Balance.StringFixed(2))
	}

	printFeed(out, "Últimas movimentações", d.Recent, func(tx stats.Transaction) time.Time { return tx.Date })
	printFeed(out, "Pendências do mês", d.Pending, func(tx stats.Transaction) time.Time { return tx.DueDate })
}

func printCategories(out io.Writer, title string, cats []stats.CategoryTotal) {
	if len(cats) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	for _, c := range cats {
		fmt.Fprintf(out, "  %-24s %12s  (%d)\n", c.Name, c.Total.StringFixed(2), c.Count)
	}
}

func printFeed(out io.Writer, title string, txs []stats.Transaction, when func(stats.Transaction) time.Time) {
	if len(txs) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	for _, tx := range txs {
		sign := "+"
		if tx.Kind == stats.KindExpense {
			sign = "-"
		}
		fmt.Fprintf(out, "  %s %s%-12s %-8s %s\n", formatDay(when(tx)), sign, tx.Value.StringFixed(2), tx.Status, tx.Description)
	}
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
