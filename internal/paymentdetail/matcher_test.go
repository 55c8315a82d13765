package paymentdetail

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/pkg/models"
)

const legalBank = "b-pj-001"

func TestReferencesBank_DirectKeys(t *testing.T) {
	tests := []struct {
		name   string
		detail any
		want   bool
	}{
		{"bank_id", map[string]any{"bank_id": legalBank}, true},
		{"bankId", map[string]any{"bankId": legalBank}, true},
		{"id", map[string]any{"id": legalBank}, true},
		{"other bank", map[string]any{"bank_id": "b-pf-002"}, false},
		{"arbitrary key", map[string]any{"conta": legalBank}, true},
		{"numeric id", map[string]any{"bank_id": float64(7)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferencesBank(tt.detail, legalBank, DefaultMaxDepth))
		})
	}

	assert.True(t, ReferencesBank(map[string]any{"bank_id": float64(7)}, "7", DefaultMaxDepth))
}

func TestReferencesBank_NilAndEmpty(t *testing.T) {
	assert.False(t, ReferencesBank(nil, legalBank, DefaultMaxDepth))
	assert.False(t, ReferencesBank(map[string]any{}, legalBank, DefaultMaxDepth))
	assert.False(t, ReferencesBank([]any{}, legalBank, DefaultMaxDepth))
	assert.False(t, ReferencesBank(models.PaymentDetail{}, legalBank, DefaultMaxDepth))
	assert.False(t, ReferencesBank((*models.PaymentDetail)(nil), legalBank, DefaultMaxDepth))
	assert.False(t, ReferencesBank("b-pj-001", legalBank, DefaultMaxDepth), "scalars are not structures")
	assert.False(t, ReferencesBank(42, legalBank, DefaultMaxDepth))
	assert.False(t, ReferencesBank(map[string]any{"bank_id": ""}, "", DefaultMaxDepth), "empty bank id never matches")
}

func TestReferencesBank_DepthBound(t *testing.T) {
	// nest builds {"n": {"n": ... {"bank": id}}} with the id `levels` maps below the root
	nest := func(levels int) map[string]any {
		node := map[string]any{"bank": legalBank}
		for i := 0; i < levels; i++ {
			node = map[string]any{"n": node}
		}
		return node
	}

	for levels := 0; levels <= DefaultMaxDepth; levels++ {
		assert.True(t, ReferencesBank(nest(levels), legalBank, DefaultMaxDepth), "levels=%d", levels)
	}
	assert.False(t, ReferencesBank(nest(DefaultMaxDepth+1), legalBank, DefaultMaxDepth))
	assert.False(t, ReferencesBank(nest(1), legalBank, 0))
	assert.True(t, ReferencesBank(nest(0), legalBank, 0))
}

func TestReferencesBank_Slices(t *testing.T) {
	detail := map[string]any{
		"splits": []any{
			map[string]any{"bank": "b-other"},
			map[string]any{"bank": legalBank},
		},
	}
	assert.True(t, ReferencesBank(detail, legalBank, DefaultMaxDepth))
	assert.True(t, ReferencesBank(map[string]any{"tags": []string{"x", legalBank}}, legalBank, DefaultMaxDepth))
}

func TestReferencesBank_PaymentDetailVariants(t *testing.T) {
	tests := []struct {
		name   string
		detail models.PaymentDetail
		want   bool
	}{
		{
			name:   "outer bank id",
			detail: models.PaymentDetail{Method: models.MethodPix, BankID: legalBank, Pix: &models.PixDetail{KeyType: "cnpj", Key: "12345678000199"}},
			want:   true,
		},
		{
			name:   "pix bank",
			detail: models.PaymentDetail{Method: models.MethodPix, Pix: &models.PixDetail{Bank: legalBank}},
			want:   true,
		},
		{
			name:   "card bank",
			detail: models.PaymentDetail{Method: models.MethodCard, Card: &models.CardDetail{Installments: 3, Bank: legalBank}},
			want:   true,
		},
		{
			name:   "boleto other bank",
			detail: models.PaymentDetail{Method: models.MethodBoleto, Boleto: &models.BoletoDetail{Bank: "b-pf-002", Barcode: "0019"}},
			want:   false,
		},
		{
			name: "legacy nested container",
			detail: models.PaymentDetail{
				Method: models.MethodOther,
				Extra: map[string]any{
					"container": map[string]any{"card": map[string]any{"bank": legalBank}},
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferencesBank(tt.detail, legalBank, DefaultMaxDepth))
			assert.Equal(t, tt.want, ReferencesBank(&tt.detail, legalBank, DefaultMaxDepth))
		})
	}
}

func TestReferencesBank_DecodedJSON(t *testing.T) {
	raw := `{"method":"card","card":{"installments":2,"bank":"b-pj-001"}}`

	var generic map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &generic))
	assert.True(t, ReferencesBank(generic, legalBank, DefaultMaxDepth))

	var detail models.PaymentDetail
	require.NoError(t, json.Unmarshal([]byte(raw), &detail))
	assert.Equal(t, models.MethodCard, detail.Method)
	require.NotNil(t, detail.Card)
	assert.True(t, ReferencesBank(detail, legalBank, DefaultMaxDepth))
}

func TestItemReferencesBank(t *testing.T) {
	item := &models.IncomeItem{Detail: models.PaymentDetail{BankID: legalBank}}
	assert.True(t, ItemReferencesBank(item, legalBank))
	assert.False(t, ItemReferencesBank(nil, legalBank))
}
