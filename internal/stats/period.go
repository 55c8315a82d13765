package stats

import (
	"fmt"
	"time"

	"finance/pkg/models"
)

// Now is the clock used to resolve the current month.
var Now = time.Now

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month t falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// CurrentMonth returns the month of Now.
func CurrentMonth() Month {
	return MonthOf(Now())
}

// ParseMonth reads a "2006-01" month.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, use YYYY-MM: %w", s, err)
	}
	return MonthOf(t), nil
}

// IsZero reports whether m was never set.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// FirstDay returns midnight UTC of the month's first day.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns midnight UTC of the month's last day.
func (m Month) LastDay() time.Time {
	return m.FirstDay().AddDate(0, 1, -1)
}

// Range covers the month's first through last day.
func (m Month) Range() models.DateRange {
	return models.DateRange{From: m.FirstDay(), To: m.LastDay()}
}

// Contains reports whether t falls within the month.
func (m Month) Contains(t time.Time) bool {
	return !t.IsZero() && t.Year() == m.Year && t.Month() == m.Month
}

// AddMonths shifts m by n months, n may be negative.
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.FirstDay().AddDate(0, n, 0))
}

// Previous is the month before m.
func (m Month) Previous() Month {
	return m.AddMonths(-1)
}

// String formats m as "2006-01".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

var shortMonths = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Label is the short pt-BR label used on chart axes, e.g. "mar/25".
func (m Month) Label() string {
	if m.Month < time.January || m.Month > time.December {
		return m.String()
	}
	return fmt.Sprintf("%s/%02d", shortMonths[m.Month-1], m.Year%100)
}

func orCurrent(m Month) Month {
	if m.IsZero() {
		return CurrentMonth()
	}
	return m
}
