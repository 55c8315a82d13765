package sheets

import (
	"context"
	"fmt"

	"finance/internal/conformance"
	"finance/internal/stats"
)

var conformanceHeaders = []interface{}{
	"Período início", "Período fim", "Tipo", "Notas", "Base", "Conformidade (%)",
	"Situação", "Registros", "Notas consideradas", "Gerado em",
}

var flowHeaders = []interface{}{"Mês", "Receitas", "Despesas", "Saldo"}

// WriteConformanceReport appends one row per conformance computation.
func (s *Service) WriteConformanceReport(ctx context.Context, sheetName string, report conformance.Report) error {
	const op = "WriteConformanceReport"

	if err := s.AppendRows(ctx, sheetName, conformanceHeaders, ConformanceRows(report)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WriteFlow appends the rolling cash-flow series.
func (s *Service) WriteFlow(ctx context.Context, sheetName string, flow []stats.FlowPoint) error {
	const op = "WriteFlow"

	if err := s.AppendRows(ctx, sheetName, flowHeaders, FlowRows(flow)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConformanceRows renders a report as sheet rows (revenue first).
func ConformanceRows(report conformance.Report) [][]interface{} {
	from, to := "", ""
	if !report.Range.From.IsZero() {
		from = report.Range.From.Format("02/01/2006")
	}
	if !report.Range.To.IsZero() {
		to = report.Range.To.Format("02/01/2006")
	}
	generated := report.GeneratedAt.Format("02/01/2006 15:04:05")

	row := func(kind string, r conformance.Result) []interface{} {
		return []interface{}{
			from, to, kind,
			r.Numerator.InexactFloat64(),
			r.Denominator.InexactFloat64(),
			r.Percentage,
			r.Severity.Label(),
			r.CountConsidered,
			r.InvoiceCount,
			generated,
		}
	}

	return [][]interface{}{
		row("Receitas", report.Revenue),
		row("Despesas", report.Expense),
	}
}

// FlowRows renders the flow series as sheet rows.
func FlowRows(flow []stats.FlowPoint) [][]interface{} {
	rows := make([][]interface{}, 0, len(flow))
	for _, p := range flow {
		rows = append(rows, []interface{}{
			p.Label,
			p.Income.InexactFloat64(),
			p.Expense.InexactFloat64(),
			p.Balance.InexactFloat64(),
		})
	}
	return rows
}
