package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"finance/internal/logger"
	"finance/internal/monitor"
	"finance/internal/notify"
	"finance/internal/sheets"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check conformance on a schedule and email alerts",
	Long: `Run the month-to-date conformance check on a cron schedule and email the
report whenever revenue or expenses fall below 100%.

The schedule is a standard five-field cron expression (MONITOR_SCHEDULE,
default "0 8 * * 1-5"). The process runs until interrupted.

Required environment variables:
  SMTP_HOST, ALERT_FROM, ALERT_TO - mail delivery
  LEGAL_ENTITY_BANK_ID - Bank ID of the company account`,
	Example: `  # Use MONITOR_SCHEDULE
  finance monitor

  # Run once now and exit
  finance monitor --once

  # Every hour, also appending each report to the report sheet
  finance monitor --schedule "@every 1h" --write-sheet`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().String("schedule", "", "Cron schedule (default: MONITOR_SCHEDULE)")
	monitorCmd.Flags().Bool("once", false, "Run the check once and exit")
	monitorCmd.Flags().Bool("write-sheet", false, "Append every report to the REPORT_SHEET sheet")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("monitor-cmd")

	schedule, _ := cmd.Flags().GetString("schedule")
	once, _ := cmd.Flags().GetBool("once")
	writeSheet, _ := cmd.Flags().GetBool("write-sheet")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if schedule == "" {
		schedule = cfg.MonitorSchedule
	}
	if !cfg.AlertsEnabled() {
		log.Warn().Msg("SMTP_HOST, ALERT_FROM or ALERT_TO missing, alerts will only be logged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openDataSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	var writer monitor.ReportWriter
	if writeSheet {
		if cfg.GoogleSheetURL == "" {
			return fmt.Errorf("GOOGLE_SHEET_URL is required for --write-sheet")
		}
		sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
		}
		writer = sheetsService
	}

	job := monitor.NewConformanceJob(source, newCalculator(cfg), notify.NewSender(cfg), writer, cfg.ReportSheet)
	scheduler := monitor.NewScheduler()

	if once {
		return scheduler.RunNow(job)
	}

	if err := scheduler.AddJob(schedule, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	scheduler.Start()
	log.Info().Str("schedule", schedule).Msg("Monitoring conformance, press Ctrl+C to stop")

	<-ctx.Done()
	scheduler.Stop()
	return nil
}
