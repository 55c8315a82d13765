package models

import "time"

// Bank is a receiving account. The engine only uses its ID as a tag inside
// payment details.
type Bank struct {
	ID              string
	Name            string
	Agency          string
	Account         string
	PixKeyType      string
	PixKey          string
	BeneficiaryName string
	BeneficiaryType string // "pf" or "pj"
}

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls on a day within the range.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	day := truncateDay(t)
	if !r.From.IsZero() && day.Before(truncateDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && day.After(truncateDay(r.To)) {
		return false
	}
	return true
}

// ContainsPtr is Contains for optional dates; nil is never contained.
func (r DateRange) ContainsPtr(t *time.Time) bool {
	if t == nil {
		return false
	}
	return r.Contains(*t)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
