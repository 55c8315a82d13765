package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finance/internal/income"
	"finance/internal/logger"
	"finance/internal/store"
)

var payCmd = &cobra.Command{
	Use:   "pay ITEM_ID",
	Short: "Record or clear the payment of an installment",
	Long: `Mark an income installment as paid, or clear its payment.

The owning income record's status and total are recalculated afterwards. If the
installment changed since it was read the command fails and nothing is saved.

Required environment variables:
  DATABASE_URL - Postgres connection string`,
	Example: `  # Paid today
  finance pay 6f1c...

  # Paid on a given date
  finance pay 6f1c... --date 2025-03-12

  # Undo a payment
  finance pay 6f1c... --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runPay,
}

func init() {
	rootCmd.AddCommand(payCmd)

	payCmd.Flags().String("date", "", "Payment date (format: YYYY-MM-DD, default: today)")
	payCmd.Flags().Bool("clear", false, "Clear the payment instead of recording it")
}

func runPay(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("pay")

	itemID := args[0]
	dateStr, _ := cmd.Flags().GetString("date")
	clearPayment, _ := cmd.Flags().GetBool("clear")

	if clearPayment && dateStr != "" {
		return fmt.Errorf("--date cannot be combined with --clear")
	}

	var paymentDate *time.Time
	if dateStr != "" {
		parsed, err := parseDay(dateStr)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		paymentDate = &parsed
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

	item, err := st.FindIncomeItem(ctx, itemID)
	if err != nil {
		return err
	}

	updated := income.RecordPayment(*item, paymentDate)
	if clearPayment {
		updated = income.ClearPayment(*item)
	}

	if err := st.SaveItemPayment(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrConcurrentModification) {
			return fmt.Errorf("installment %s changed while updating, reload and retry: %w", itemID, err)
		}
		return err
	}

	log.Info().
		Str("item_id", itemID).
		Str("status", string(updated.Status)).
		Msg("Installment payment updated")

	paid := "-"
	if updated.PaymentDate != nil {
		paid = updated.PaymentDate.Format("2006-01-02")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (paid %s)\n", itemID, updated.Status, paid)
	return nil
}
