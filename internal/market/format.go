package market

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price with two decimal places, the way the table
// and the prediction panel display it.
func FormatPrice(p decimal.Decimal) string {
	return p.StringFixed(2)
}

// FormatMoney renders a price with its currency, e.g. "KES 50.00".
func FormatMoney(p decimal.Decimal, currency string) string {
	if currency == "" {
		return FormatPrice(p)
	}
	return currency + " " + FormatPrice(p)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
