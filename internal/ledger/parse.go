package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/money"
)

var thousandsOnly = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// parseBrazilianDate parses DD/MM/YYYY dates, with ISO as a fallback
func parseBrazilianDate(dateStr string) (time.Time, error) {
	cleaned := strings.TrimSpace(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	formats := []string{
		"02/01/2006",
		"2/1/2006",
		"02/01/06",
		"2/1/06",
		"2006-01-02",
		time.RFC3339,
	}

	for _, format := range formats {
		if date, err := time.Parse(format, cleaned); err == nil {
			y, m, d := date.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// parseBrazilianAmount parses amounts written as "R$ 1.234,56" or "-1234,5".
// An empty string is zero.
func parseBrazilianAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountStr)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, "BRL", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", "")

	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")

	// dot groups thousands, comma separates decimals
	switch {
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case thousandsOnly.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse amount: %s (cleaned: %s)", amountStr, cleaned)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// parseAmount reads a monetary cell. Text cells use the Brazilian format and
// numeric cells go through money coercion.
func parseAmount(cell interface{}) (decimal.Decimal, error) {
	if s, ok := cell.(string); ok {
		return parseBrazilianAmount(s)
	}
	if cell == nil {
		return decimal.Zero, nil
	}
	amount, ok := money.TryCoerce(cell)
	if !ok {
		return decimal.Zero, fmt.Errorf("unable to parse amount: %v", cell)
	}
	return amount, nil
}

// parseFiscalFlag maps "sim"/"não" style cells to a tri-state flag
func parseFiscalFlag(s string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "s", "yes", "y", "true", "1", "x":
		v = true
	case "não", "nao", "n", "no", "false", "0":
		v = false
	default:
		return nil
	}
	return &v
}

// isPaidStatus reports whether a status cell marks a settled entry
func isPaidStatus(s string) (paid bool, known bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pago", "paga", "paid", "recebido", "recebida", "quitado":
		return true, true
	case "pendente", "pending", "em aberto", "aberto", "a receber", "a pagar":
		return false, true
	}
	return false, false
}

// parseInstallment parses "2/3" into installment number and total
func parseInstallment(s string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	total, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || n < 1 || total < n {
		return 0, 0, false
	}
	return n, total, true
}

// getString safely extracts a string value from a row slice
func getString(row []interface{}, index int) string {
	if index >= len(row) || row[index] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
}

// getCell safely extracts the raw value from a row slice
func getCell(row []interface{}, index int) interface{} {
	if index >= len(row) {
		return nil
	}
	return row[index]
}
