package utils

import (
	"strings"

	"github.com/nyasatech/expense_request_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatAmountWithCurrency formats a monetary amount for display, e.g.
// amount 1500 with USD returns "USD 1,500.00".
func FormatAmountWithCurrency(currency domain.Currency, amount decimal.Decimal) string {
	return string(currency) + " " + groupThousands(amount.StringFixed(2))
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
