package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finance/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "finance",
	Short: "Finance CLI - reconciliation and aggregation for the studio's books",
	Long: `Finance CLI turns approved proposals into receivables, records installment
payments, and reports how well issued and received invoices cover the money
that actually moved.

Records are loaded from Postgres (DATA_SOURCE=postgres) or from the
bookkeeping spreadsheet (DATA_SOURCE=sheets).`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Finance CLI executed")

		_ = cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
