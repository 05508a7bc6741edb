// Package whatsapp builds wa.me hand-off links and the legacy plain-text
// templates still used by the back-office screens.
package whatsapp

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one line of a legacy template.
type Item struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Note     string
	Addons   []string
}

// Link builds the navigation URL for handing text to the given phone. The
// text is percent-encoded with %20 for spaces, matching what the receiving
// side expects.
func Link(phone, text string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + encoded
}

// ComposeOrder renders the legacy storefront order template. Returns ""
// for an empty item list; callers skip the hand-off in that case.
func ComposeOrder(items []Item) string {
	return composeLegacy("*NOVO PEDIDO*", "Pedido feito pelo site", items)
}

// ComposeDiscountStock renders the back-office stock write-off template.
func ComposeDiscountStock(items []Item) string {
	return composeLegacy("*NOVA BAIXA DE ESTOQUE*", "Baixa registrada pelo site", items)
}

func composeLegacy(header, footer string, items []Item) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")

	total := decimal.Zero
	for _, item := range items {
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)

		b.WriteString("• " + item.Name + "\n")
		b.WriteString("Quantidade: " + strconv.Itoa(item.Quantity) + "\n")
		b.WriteString("💰 Valor: R$ " + subtotal.StringFixed(2) + "\n")
		if len(item.Addons) > 0 {
			b.WriteString("Adicionais: " + strings.Join(item.Addons, ", ") + "\n")
		}
		if item.Note != "" {
			b.WriteString("Obs: " + item.Note + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("TOTAL: R$ " + total.StringFixed(2) + "\n")
	b.WriteString(footer)
	return b.String()
}
