// Package money normalizes monetary values that reach the engine in
// inconsistent shapes.
//
// Upstream records are not guaranteed to store values as numbers: a total can
// arrive as a float, a decimal, a "1500,50" string, a "1500.50" string or
// nothing at all. Coerce turns any of these into a decimal.Decimal and never
// fails; values it cannot read become zero.
package money

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce returns v as a decimal. Numbers are returned as given. Strings have
// their comma replaced by a dot before parsing. Nil, unparseable strings,
// NaN/Inf and unsupported types yield zero.
func Coerce(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case decimal.NullDecimal:
		if !n.Valid {
			return decimal.Zero
		}
		return n.Decimal
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case uint:
		return fromUint(uint64(n))
	case uint32:
		return decimal.NewFromInt(int64(n))
	case uint64:
		return fromUint(n)
	case json.Number:
		return parse(string(n))
	case string:
		return parse(n)
	case *string:
		if n == nil {
			return decimal.Zero
		}
		return parse(*n)
	case *float64:
		if n == nil {
			return decimal.Zero
		}
		return fromFloat(*n)
	}
	return decimal.Zero
}

// TryCoerce is Coerce that also reports whether v was actually readable.
// Loaders use it to log malformed values; the engine itself only uses Coerce.
func TryCoerce(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case string:
		d, err := decimal.NewFromString(normalize(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case json.Number:
		return TryCoerce(string(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return fromFloat(n), true
	case float32, int, int32, int64, uint, uint32, uint64,
		decimal.Decimal, *decimal.Decimal, decimal.NullDecimal, *string, *float64:
		return Coerce(v), true
	}
	return decimal.Zero, false
}

func parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(normalize(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
