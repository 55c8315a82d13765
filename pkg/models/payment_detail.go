package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentMethodKind discriminates the PaymentDetail variants.
type PaymentMethodKind string

const (
	MethodPix    PaymentMethodKind = "pix"
	MethodCard   PaymentMethodKind = "card"
	MethodBoleto PaymentMethodKind = "boleto"
	MethodOther  PaymentMethodKind = "other"
)

// PaymentDetail is method-specific data attached to an income item. Exactly one
// variant pointer matching Method is expected to be set. A bank can be attached
// regardless of method, so BankID/BankName live on the outer struct.
type PaymentDetail struct {
	Method   PaymentMethodKind
	BankID   string
	BankName string

	Pix    *PixDetail
	Card   *CardDetail
	Boleto *BoletoDetail
	Other  *OtherDetail

	// Extra keeps keys found in stored details that no variant knows about
	Extra map[string]any
}

type PixDetail struct {
	KeyType string `json:"key_type,omitempty"`
	Key     string `json:"key,omitempty"`
	Bank    string `json:"bank,omitempty"`
}

type CardDetail struct {
	Installments int              `json:"installments,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	Bank         string           `json:"bank,omitempty"`
}

type BoletoDetail struct {
	Bank      string `json:"bank,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
	DigitLine string `json:"digit_line,omitempty"`
}

type OtherDetail struct {
	Bank  string `json:"bank,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// IsZero reports whether no detail at all has been captured.
func (d PaymentDetail) IsZero() bool {
	return d.Method == "" && d.BankID == "" && d.BankName == "" &&
		d.Pix == nil && d.Card == nil && d.Boleto == nil && d.Other == nil && len(d.Extra) == 0
}

// Fields returns the detail as a generic key/value tree. The variant's own fields
// are nested under the method key ("pix", "card", ...), the shape the bank matcher
// walks.
func (d PaymentDetail) Fields() map[string]any {
	fields := make(map[string]any, len(d.Extra)+4)
	for k, v := range d.Extra {
		fields[k] = v
	}
	if d.Method != "" {
		fields["method"] = string(d.Method)
	}
	if d.BankID != "" {
		fields["bank_id"] = d.BankID
	}
	if d.BankName != "" {
		fields["bank_name"] = d.BankName
	}

	switch {
	case d.Pix != nil:
		fields[string(MethodPix)] = map[string]any{
			"key_type": d.Pix.KeyType,
			"key":      d.Pix.Key,
			"bank":     d.Pix.Bank,
		}
	case d.Card != nil:
		card := map[string]any{
			"installments": d.Card.Installments,
			"bank":         d.Card.Bank,
		}
		if d.Card.InterestRate != nil {
			card["interest_rate"] = d.Card.InterestRate.String()
		}
		fields[string(MethodCard)] = card
	case d.Boleto != nil:
		fields[string(MethodBoleto)] = map[string]any{
			"bank":       d.Boleto.Bank,
			"barcode":    d.Boleto.Barcode,
			"digit_line": d.Boleto.DigitLine,
		}
	case d.Other != nil:
		fields[string(MethodOther)] = map[string]any{
			"bank":  d.Other.Bank,
			"notes": d.Other.Notes,
		}
	}

	return fields
}

// MarshalJSON stores the detail in the same shape Fields exposes.
func (d PaymentDetail) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Fields())
}

// UnmarshalJSON accepts both current and legacy stored shapes. Unknown keys are
// kept in Extra so nothing stored is lost on a round trip.
func (d *PaymentDetail) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("payment detail: %w", err)
	}
	*d = PaymentDetail{}
	if raw == nil {
		return nil
	}

	var err error
	take := func(key string, dst any) bool {
		v, ok := raw[key]
		if !ok {
			return false
		}
		delete(raw, key)
		if err == nil {
			if e := json.Unmarshal(v, dst); e != nil {
				err = fmt.Errorf("payment detail %q: %w", key, e)
			}
		}
		return true
	}

	var method string
	take("method", &method)
	d.Method = PaymentMethodKind(method)
	if !take("bank_id", &d.BankID) {
		take("bankId", &d.BankID)
	}
	take("bank_name", &d.BankName)

	if _, ok := raw[string(MethodPix)]; ok {
		d.Pix = &PixDetail{}
		take(string(MethodPix), d.Pix)
	}
	if _, ok := raw[string(MethodCard)]; ok {
		d.Card = &CardDetail{}
		take(string(MethodCard), d.Card)
	}
	if _, ok := raw[string(MethodBoleto)]; ok {
		d.Boleto = &BoletoDetail{}
		take(string(MethodBoleto), d.Boleto)
	}
	if _, ok := raw[string(MethodOther)]; ok {
		d.Other = &OtherDetail{}
		take(string(MethodOther), d.Other)
	}
	if err != nil {
		return err
	}

	if len(raw) > 0 {
		d.Extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var anyVal any
			if e := json.Unmarshal(v, &anyVal); e != nil {
				return fmt.Errorf("payment detail %q: %w", k, e)
			}
			d.Extra[k] = anyVal
		}
	}
	return nil
}
