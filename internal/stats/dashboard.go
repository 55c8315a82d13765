package stats

import (
	"github.com/shopspring/decimal"

	"finance/internal/logger"
	"finance/pkg/services"
)

// Dashboard bundles every aggregate the dashboard view shows for a month.
type Dashboard struct {
	Stats   MonthStats      `json:"stats"`
	Flow    []FlowPoint     `json:"flow"`
	Balance decimal.Decimal `json:"balance"`
	Recent  []Transaction   `json:"recent"`
	Pending []Transaction   `json:"pending"`
}

// BuildDashboard computes the dashboard for month over ds. feedLimit caps both
// transaction feeds.
func BuildDashboard(ds *services.Dataset, month Month, feedLimit int) Dashboard {
	log := logger.WithComponent("stats")
	month = orCurrent(month)

	d := Dashboard{
		Stats:   ComputeMonthStats(ds.IncomeItems, ds.Expenses, month),
		Flow:    ComputeRollingFlow(ds.IncomeItems, ds.Expenses, DefaultFlowMonths, month),
		Balance: RunningBalance(ds.IncomeItems, ds.Expenses),
		Recent:  RecentTransactions(ds.IncomeItems, ds.Expenses, feedLimit, month),
		Pending: PendingTransactions(ds.IncomeItems, ds.Expenses, feedLimit, month),
	}

	log.Debug().
		Str("period", month.String()).
		Str("income", d.Stats.Income.StringFixed(2)).
		Str("expense", d.Stats.Expense.StringFixed(2)).
		Str("balance", d.Balance.StringFixed(2)).
		Int("recent", len(d.Recent)).
		Int("pending", len(d.Pending)).
		Msg("Dashboard aggregated")

	return d
}
