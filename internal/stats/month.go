// Package stats produces the period aggregates behind the financial dashboard:
// month totals with month-over-month growth, category breakdowns, the rolling
// cash-flow series, the running balance and the recent/pending feeds.
//
// Every function takes already-loaded records and is free of side effects.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"finance/pkg/models"
)

// MaxCategories caps category breakdowns.
const MaxCategories = 6

var hundred = decimal.NewFromInt(100)

// CategoryTotal is one slice of a category breakdown.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// MonthStats are the dashboard figures for one month.
type MonthStats struct {
	Month           Month           `json:"-"`
	Period          string          `json:"period"`
	Income          decimal.Decimal `json:"income"`
	Expense         decimal.Decimal `json:"expense"`
	Net             decimal.Decimal `json:"net"`
	PreviousIncome  decimal.Decimal `json:"previous_income"`
	PreviousExpense decimal.Decimal `json:"previous_expense"`
	IncomeGrowth    decimal.Decimal `json:"income_growth"`
	ExpenseGrowth   decimal.Decimal `json:"expense_growth"`

	// Still open amounts due within the month
	PendingIncome  decimal.Decimal `json:"pending_income"`
	PendingExpense decimal.Decimal `json:"pending_expense"`

	IncomeByCategory  []CategoryTotal `json:"income_by_category"`
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
}

// MonthTotal sums the values of entries with the given status whose date falls
// within month. Pending entries are placed by due date.
func MonthTotal(entries []Entry, status Status, month Month) decimal.Decimal {
	total := decimal.Zero
	for i := range entries {
		e := &entries[i]
		if e.Status != status {
			continue
		}
		when := e.Date
		if status == StatusPending {
			when = e.DueDate
		}
		if month.Contains(when) {
			total = total.Add(e.Value)
		}
	}
	return total
}

// Growth returns (current-previous)/previous*100 rounded to two places, or
// zero when previous is not positive.
func Growth(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// ComputeMonthStats aggregates month (the current month when zero) and
// compares it with the month before.
func ComputeMonthStats(items []models.IncomeItem, expenses []models.Expense, month Month) MonthStats {
	month = orCurrent(month)
	prev := month.Previous()
	inc := IncomeEntries(items)
	exp := ExpenseEntries(expenses)

	s := MonthStats{
		Month:             month,
		Period:            month.String(),
		Income:            MonthTotal(inc, StatusPaid, month),
		Expense:           MonthTotal(exp, StatusPaid, month),
		PreviousIncome:    MonthTotal(inc, StatusPaid, prev),
		PreviousExpense:   MonthTotal(exp, StatusPaid, prev),
		PendingIncome:     MonthTotal(inc, StatusPending, month),
		PendingExpense:    MonthTotal(exp, StatusPending, month),
		IncomeByCategory:  CategoryBreakdown(inc, month),
		ExpenseByCategory: CategoryBreakdown(exp, month),
	}
	s.Net = s.Income.Sub(s.Expense)
	s.IncomeGrowth = Growth(s.Income, s.PreviousIncome)
	s.ExpenseGrowth = Growth(s.Expense, s.PreviousExpense)
	return s
}

// CategoryBreakdown groups the month's paid entries by category, sorted by
// total descending and capped at MaxCategories groups.
func CategoryBreakdown(entries []Entry, month Month) []CategoryTotal {
	index := make(map[string]int)
	var groups []CategoryTotal
	for i := range entries {
		e := &entries[i]
		if e.Status != StatusPaid || !month.Contains(e.Date) {
			continue
		}
		pos, ok := index[e.Category]
		if !ok {
			pos = len(groups)
			index[e.Category] = pos
			groups = append(groups, CategoryTotal{Name: e.Category, Total: decimal.Zero})
		}
		groups[pos].Total = groups[pos].Total.Add(e.Value)
		groups[pos].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Cmp(groups[j].Total); c != 0 {
			return c > 0
		}
		return groups[i].Name < groups[j].Name
	})

	if len(groups) > MaxCategories {
		groups = groups[:MaxCategories]
	}
	return groups
}
