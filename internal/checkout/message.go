package checkout

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmoreira/storefront/internal/cart"
)

// Summary is everything the hand-off message needs. Totals are computed by
// the caller so the message always matches what the customer saw.
type Summary struct {
	Lines       []cart.Line
	OrderNote   string
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// ComposeMessage renders the order summary handed off to WhatsApp. The
// section ordering and line formats are a contract with the receiving side;
// do not reorder.
func ComposeMessage(sum Summary, st *State) string {
	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	addr := st.Address()
	var lines []string

	lines = append(lines, "🧾 *Pedido - "+dash(addr.FullName)+"*")
	lines = append(lines, "")
	lines = append(lines, "*Resumo*")
	for _, it := range sum.Lines {
		itemTotal := it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
		lines = append(lines, "• "+strconv.Itoa(it.Qty)+"x "+it.Name+" — "+FormatBRL(itemTotal))
		if it.Subtitle != "" {
			lines = append(lines, "  "+it.Subtitle)
		}
		if it.Note != "" {
			lines = append(lines, "  "+it.Note)
		}
	}

	fee := sum.DeliveryFee
	if len(sum.Lines) == 0 {
		fee = decimal.Zero
	}
	lines = append(lines, "")
	lines = append(lines, "Subtotal: "+FormatBRL(sum.Subtotal))
	lines = append(lines, "Entrega: "+FormatBRL(fee))
	lines = append(lines, "*Total: "+FormatBRL(sum.Total)+"*")

	if note := strings.TrimSpace(sum.OrderNote); note != "" {
		lines = append(lines, "")
		lines = append(lines, "Obs: "+note)
	}

	lines = append(lines, "")
	lines = append(lines, "*Seus Dados*")
	lines = append(lines, "Nome: "+dash(addr.FullName))
	lines = append(lines, "WhatsApp: "+dash(addr.Phone))

	lines = append(lines, "")
	lines = append(lines, "*Entrega*")
	lines = append(lines, "CEP: "+dash(addr.CEP))
	lines = append(lines, "Rua: "+dash(addr.Street)+", Nº: "+dash(addr.Number))
	lines = append(lines, "Bairro: "+dash(addr.District))
	if addr.Complement != "" {
		lines = append(lines, "Compl.: "+addr.Complement)
	}

	lines = append(lines, "")
	lines = append(lines, "*Pagamento*")
	lines = append(lines, paymentLine(st))

	return strings.Join(lines, "\n")
}

func paymentLine(st *State) string {
	switch {
	case st.Payment == PaymentPix:
		return "Pix"
	case st.Payment == PaymentCard:
		return "Cartão (crédito/débito)"
	case st.NeedChange != nil && *st.NeedChange:
		amount := strings.TrimSpace(st.CashChange)
		if amount == "" {
			amount = "-"
		}
		return "Dinheiro (troco para: " + amount + ")"
	default:
		return "Dinheiro (sem troco)"
	}
}
