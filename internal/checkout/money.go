package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a decimal as Brazilian currency: "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	fixed := v.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := "R$ " + grouped.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
