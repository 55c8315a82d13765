package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finance/internal/income"
	"finance/internal/logger"
	"finance/pkg/models"
)

var convertCmd = &cobra.Command{
	Use:   "convert PROPOSAL_CODE",
	Short: "Turn an approved proposal into an income record",
	Long: `Convert an approved proposal into an income record with one installment per
payment condition.

Installments are due on the conversion date. The first --paid installments
are recorded as received on that date; the rest stay pending.

Required environment variables:
  DATABASE_URL - Postgres connection string`,
	Example: `  # Preview the installments without saving
  finance convert PROP-2025-014 --method pm-pix --dry-run

  # Convert, marking the down payment as already received
  finance convert PROP-2025-014 --method pm-pix --paid 1`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("method", "", "Payment method ID applied to every installment (required)")
	convertCmd.Flags().String("category", "", "Income category ID for the record")
	convertCmd.Flags().String("date", "", "Conversion date (format: YYYY-MM-DD, default: today)")
	convertCmd.Flags().Int("paid", 0, "Number of leading installments already received")
	convertCmd.Flags().Bool("dry-run", false, "Show the installments but don't save")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("convert")

	code := args[0]
	method, _ := cmd.Flags().GetString("method")
	category, _ := cmd.Flags().GetString("category")
	dateStr, _ := cmd.Flags().GetString("date")
	paidCount, _ := cmd.Flags().GetInt("paid")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var at time.Time
	if dateStr != "" {
		parsed, err := parseDay(dateStr)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		at = parsed
	}
	if paidCount < 0 {
		return fmt.Errorf("--paid must not be negative")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	proposal, err := st.FindProposalByCode(ctx, code)
	if err != nil {
		return err
	}
	existing, err := st.FindIncomeByProposal(ctx, proposal.ID)
	if err != nil {
		return err
	}
	if err := income.CheckConvertible(proposal, existing); err != nil {
		return err
	}

	draft, err := income.ConvertProposalToIncomeDraft(proposal, at)
	if err != nil {
		return err
	}
	prepareDraft(draft, method, category, paidCount)

	record, err := income.FinalizeDraft(draft)
	if err != nil {
		return err
	}

	log.Info().
		Str("proposal", code).
		Int("items", len(record.Items)).
		Str("total", record.TotalValue.StringFixed(2)).
		Str("status", string(record.Status)).
		Bool("dry_run", dryRun).
		Msg("Proposal converted")

	printRecord(cmd, record)

	if dryRun {
		return nil
	}
	if err := st.CreateIncomeRecord(ctx, record); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved income record %s\n", record.ID)
	return nil
}

// prepareDraft applies the CLI choices to the draft: one payment method for
// every item, and payment dates kept only on the first paidCount items.
func prepareDraft(draft *models.IncomeRecordDraft, method, category string, paidCount int) {
	if category != "" {
		draft.CategoryID = &category
	}
	for i := range draft.Items {
		draft.Items[i].PaymentMethodID = method
		if i >= paidCount {
			draft.Items[i].PaymentDate = nil
		}
	}
}

func printRecord(cmd *cobra.Command, record *models.IncomeRecord) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s - total %s - %s\n", record.Description, record.TotalValue.StringFixed(2), record.Status)
	for _, item := range record.Items {
		paid := "-"
		if item.PaymentDate != nil {
			paid = item.PaymentDate.Format("2006-01-02")
		}
		fmt.Fprintf(out, "  %d/%d %-20s %12s  due %s  paid %s  %s\n",
			item.InstallmentNumber, item.TotalInstallments, item.Description,
			item.Value.StringFixed(2), item.DueDate.Format("2006-01-02"), paid, item.Status)
	}
}
