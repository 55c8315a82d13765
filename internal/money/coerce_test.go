package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	d := decimal.RequireFromString("12.34")
	var nilDecimal *decimal.Decimal
	var nilString *string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"float", 1500.5, "1500.5"},
		{"negative float", -20.25, "-20.25"},
		{"int", 300, "300"},
		{"int64", int64(700), "700"},
		{"uint64", uint64(42), "42"},
		{"decimal", d, "12.34"},
		{"decimal pointer", &d, "12.34"},
		{"nil decimal pointer", nilDecimal, "0"},
		{"nil string pointer", nilString, "0"},
		{"dot string", "1500.50", "1500.5"},
		{"comma string", "1500,50", "1500.5"},
		{"padded string", "  99,9 ", "99.9"},
		{"empty string", "", "0"},
		{"garbage", "abc", "0"},
		{"thousands separators", "1.234,56", "0"},
		{"json number", json.Number("10.5"), "10.5"},
		{"NaN", math.NaN(), "0"},
		{"Inf", math.Inf(1), "0"},
		{"bool", true, "0"},
		{"map", map[string]any{"value": 10}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { Coerce(tt.in) })
			assert.Equal(t, tt.want, Coerce(tt.in).String())
		})
	}
}

func TestTryCoerce(t *testing.T) {
	v, ok := TryCoerce("250,75")
	assert.True(t, ok)
	assert.Equal(t, "250.75", v.String())

	v, ok = TryCoerce("R$ 10")
	assert.False(t, ok)
	assert.True(t, v.IsZero())

	_, ok = TryCoerce(nil)
	assert.False(t, ok)

	_, ok = TryCoerce(math.NaN())
	assert.False(t, ok)

	_, ok = TryCoerce(true)
	assert.False(t, ok)

	v, ok = TryCoerce(12)
	assert.True(t, ok)
	assert.Equal(t, "12", v.String())
}
