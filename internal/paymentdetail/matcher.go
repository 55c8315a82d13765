// Package paymentdetail answers whether a bank is referenced anywhere inside a
// payment detail.
//
// Payment details differ by method and stored details may nest per-method
// sub-objects (a card block inside a generic container, for instance), so the
// search walks the structure instead of reading a single field. The walk is
// bounded by a maximum depth so malformed or self-similar data cannot make it
// run away.
package paymentdetail

import (
	"fmt"
	"reflect"
	"strconv"

	"finance/pkg/models"
)

// DefaultMaxDepth is the nesting depth searched when callers have no reason to
// pick another one.
const DefaultMaxDepth = 3

// directKeys are checked first at every level.
var directKeys = []string{"bank_id", "bankId", "id"}

// ReferencesBank reports whether bankID appears as a value at or below any key
// of detail, descending at most maxDepth levels. detail may be a
// models.PaymentDetail, a pointer to one, or a generic map/slice tree such as a
// decoded JSON document. Anything else, nil, an empty structure or an empty
// bankID yields false.
func ReferencesBank(detail any, bankID string, maxDepth int) bool {
	if bankID == "" {
		return false
	}
	return walk(normalize(detail), bankID, 0, maxDepth)
}

// ItemReferencesBank is ReferencesBank applied to an income item's detail with
// the default depth.
func ItemReferencesBank(item *models.IncomeItem, bankID string) bool {
	if item == nil {
		return false
	}
	return ReferencesBank(item.Detail, bankID, DefaultMaxDepth)
}

func walk(node any, bankID string, depth, maxDepth int) bool {
	switch n := node.(type) {
	case map[string]any:
		for _, key := range directKeys {
			if v, ok := n[key]; ok && matches(v, bankID) {
				return true
			}
		}
		for _, v := range n {
			if matches(v, bankID) {
				return true
			}
			if isStructured(v) && depth < maxDepth {
				if walk(normalize(v), bankID, depth+1, maxDepth) {
					return true
				}
			}
		}
	case []any:
		for _, v := range n {
			if matches(v, bankID) {
				return true
			}
			if isStructured(v) && depth < maxDepth {
				if walk(normalize(v), bankID, depth+1, maxDepth) {
					return true
				}
			}
		}
	}
	return false
}

// normalize turns the supported inputs into map[string]any / []any trees.
func normalize(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case models.PaymentDetail:
		return n.Fields()
	case *models.PaymentDetail:
		if n == nil {
			return nil
		}
		return n.Fields()
	case map[string]any, []any:
		return n
	case map[string]string:
		m := make(map[string]any, len(n))
		for k, s := range n {
			m[k] = s
		}
		return m
	case []map[string]any:
		s := make([]any, len(n))
		for i, m := range n {
			s[i] = m
		}
		return s
	}

	// Other map and slice types (map[string]int, []string, ...) are rare
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return m
	case reflect.Slice, reflect.Array:
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return s
	}
	return nil
}

func isStructured(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32:
		return false
	case models.PaymentDetail, *models.PaymentDetail:
		return true
	}
	kind := reflect.ValueOf(v).Kind()
	return kind == reflect.Map || kind == reflect.Slice || kind == reflect.Array
}

// matches compares a scalar against the bank id. Numeric ids stored as JSON
// numbers compare by their decimal text.
func matches(v any, bankID string) bool {
	switch s := v.(type) {
	case string:
		return s == bankID
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64) == bankID
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprint(s) == bankID
	case fmt.Stringer:
		return s.String() == bankID
	}
	return false
}
