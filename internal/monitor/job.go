package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"finance/internal/conformance"
	"finance/internal/logger"
	"finance/internal/stats"
	"finance/pkg/services"
)

// Notifier delivers a conformance report
type Notifier interface {
	NotifyConformance(report conformance.Report) (bool, error)
}

// ReportWriter persists a conformance report
type ReportWriter interface {
	WriteConformanceReport(ctx context.Context, sheetName string, report conformance.Report) error
}

// ConformanceJob checks the current month's conformance and alerts on it
type ConformanceJob struct {
	source     services.DatasetSource
	calculator *conformance.Calculator
	notifier   Notifier
	writer     ReportWriter
	sheetName  string
	timeout    time.Duration
	log        zerolog.Logger

	mu   sync.Mutex
	last *conformance.Report
}

// NewConformanceJob creates the job. writer may be nil.
func NewConformanceJob(source services.DatasetSource, calculator *conformance.Calculator, notifier Notifier, writer ReportWriter, sheetName string) *ConformanceJob {
	return &ConformanceJob{
		source:     source,
		calculator: calculator,
		notifier:   notifier,
		writer:     writer,
		sheetName:  sheetName,
		timeout:    5 * time.Minute,
		log:        logger.WithComponent("monitor"),
	}
}

// Name identifies the job in logs
func (j *ConformanceJob) Name() string { return "conformance" }

// Run computes the month-to-date report, writes it when a writer is set,
// and hands it to the notifier.
func (j *ConformanceJob) Run() error {
	const op = "ConformanceJob.Run"

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	rng := stats.CurrentMonth().Range()
	ds, err := j.source.LoadDataset(ctx, rng)
	if err != nil {
		return fmt.Errorf("%s: failed to load %s data: %w", op, j.source.Name(), err)
	}

	report := j.calculator.Run(ds, rng)
	j.mu.Lock()
	j.last = &report
	j.mu.Unlock()

	if j.writer != nil {
		if err := j.writer.WriteConformanceReport(ctx, j.sheetName, report); err != nil {
			j.log.Warn().Err(err).Msg("Failed to write conformance report, continuing")
		}
	}

	sent, err := j.notifier.NotifyConformance(report)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	j.log.Info().
		Str("worst", string(report.Worst())).
		Bool("alert_sent", sent).
		Msg("Conformance check finished")

	return nil
}

// LastReport returns the most recent report, or nil before the first run
func (j *ConformanceJob) LastReport() *conformance.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
