package conformance

import "github.com/shopspring/decimal"

// Severity classifies a conformance percentage.
type Severity string

const (
	SeverityOK     Severity = "ok"
	SeverityAlerta Severity = "alerta"
	SeverityPerigo Severity = "perigo"
)

// Thresholds shared by revenue and expense conformance.
const (
	FullThreshold  = 100
	AlertThreshold = 90
)

// Classify maps a percentage to a severity. A zero denominator means there was
// nothing to reconcile and is classified ok.
func Classify(percentage int, denominatorZero bool) Severity {
	switch {
	case denominatorZero || percentage >= FullThreshold:
		return SeverityOK
	case percentage >= AlertThreshold:
		return SeverityAlerta
	default:
		return SeverityPerigo
	}
}

// Label is the text shown next to a severity badge.
func (s Severity) Label() string {
	switch s {
	case SeverityOK:
		return "Conforme"
	case SeverityAlerta:
		return "Alerta"
	case SeverityPerigo:
		return "Perigo"
	}
	return string(s)
}

var hundred = decimal.NewFromInt(100)

// Percentage returns round(min(100, numerator/denominator*100)) clamped to
// [0, 100], and 0 when denominator is zero. over reports a raw ratio above 100%.
func Percentage(numerator, denominator decimal.Decimal) (pct int, over bool) {
	if denominator.IsZero() {
		return 0, false
	}
	raw := numerator.Div(denominator).Mul(hundred)
	over = raw.GreaterThan(hundred)
	clamped := decimal.Max(decimal.Zero, decimal.Min(hundred, raw))
	return int(clamped.Round(0).IntPart()), over
}
