package stats

import (
	"github.com/shopspring/decimal"

	"finance/pkg/models"
)

// DefaultFlowMonths is the length of the rolling cash-flow series.
const DefaultFlowMonths = 9

// FlowPoint is one month of the rolling series.
type FlowPoint struct {
	Period  string          `json:"period"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ComputeRollingFlow returns paid income, paid expense and their difference
// for the months trailing ref (inclusive), oldest first. months <= 0 uses
// DefaultFlowMonths and a zero ref uses the current month.
func ComputeRollingFlow(items []models.IncomeItem, expenses []models.Expense, months int, ref Month) []FlowPoint {
	if months <= 0 {
		months = DefaultFlowMonths
	}
	ref = orCurrent(ref)
	inc := IncomeEntries(items)
	exp := ExpenseEntries(expenses)

	points := make([]FlowPoint, 0, months)
	for offset := months - 1; offset >= 0; offset-- {
		m := ref.AddMonths(-offset)
		income := MonthTotal(inc, StatusPaid, m)
		expense := MonthTotal(exp, StatusPaid, m)
		points = append(points, FlowPoint{
			Period:  m.String(),
			Label:   m.Label(),
			Income:  income,
			Expense: expense,
			Balance: income.Sub(expense),
		})
	}
	return points
}

// RunningBalance is all paid income ever received minus all paid expenses.
func RunningBalance(items []models.IncomeItem, expenses []models.Expense) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range IncomeEntries(items) {
		if e.Status == StatusPaid {
			balance = balance.Add(e.Value)
		}
	}
	for _, e := range ExpenseEntries(expenses) {
		if e.Status == StatusPaid {
			balance = balance.Sub(e.Value)
		}
	}
	return balance
}
