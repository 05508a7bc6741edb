package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoreira/storefront/internal/cart"
)

func TestComposeMessage_FullTemplate(t *testing.T) {
	st := filledState()
	st.SetPayment(PaymentCash)
	st.SetNeedChange(true)
	st.SetCashChange("50,00")

	sum := Summary{
		Lines: []cart.Line{
			{ID: 7, Name: "Coca-Cola Lata", Price: dec("6"), Qty: 1},
			{ID: 8, Name: "X-Burger", Price: dec("18.5"), Qty: 2, Subtitle: "Sem cebola", Note: "Bem passado"},
		},
		OrderNote:   "Portão azul",
		Subtotal:    dec("43"),
		DeliveryFee: dec("5"),
		Total:       dec("48"),
	}

	msg := ComposeMessage(sum, st)
	want := strings.Join([]string{
		"🧾 *Pedido - Ana*",
		"",
		"*Resumo*",
		"• 1x Coca-Cola Lata — R$ 6,00",
		"• 2x X-Burger — R$ 37,00",
		"  Sem cebola",
		"  Bem passado",
		"",
		"Subtotal: R$ 43,00",
		"Entrega: R$ 5,00",
		"*Total: R$ 48,00*",
		"",
		"Obs: Portão azul",
		"",
		"*Seus Dados*",
		"Nome: Ana",
		"WhatsApp: (64) 99999-9999",
		"",
		"*Entrega*",
		"CEP: 74000-000",
		"Rua: Rua A, Nº: 10",
		"Bairro: Centro",
		"",
		"*Pagamento*",
		"Dinheiro (troco para: 50,00)",
	}, "\n")

	assert.Equal(t, want, msg)
}

func TestComposeMessage_PaymentVariants(t *testing.T) {
	st := filledState()
	sum := Summary{
		Lines:    []cart.Line{{ID: 1, Name: "Item", Price: dec("10"), Qty: 1}},
		Subtotal: dec("10"), DeliveryFee: dec("0"), Total: dec("10"),
	}

	st.SetPayment(PaymentPix)
	assert.True(t, strings.HasSuffix(ComposeMessage(sum, st), "Pix"))

	st.SetPayment(PaymentCard)
	assert.True(t, strings.HasSuffix(ComposeMessage(sum, st), "Cartão (crédito/débito)"))

	st.SetPayment(PaymentCash)
	st.SetNeedChange(false)
	assert.True(t, strings.HasSuffix(ComposeMessage(sum, st), "Dinheiro (sem troco)"))
}

func TestComposeMessage_OptionalSections(t *testing.T) {
	st := filledState()
	st.Complement = "Apto 12"

	sum := Summary{
		Lines:    []cart.Line{{ID: 1, Name: "Item", Price: dec("10"), Qty: 1}},
		Subtotal: dec("10"), DeliveryFee: dec("5"), Total: dec("15"),
	}

	msg := ComposeMessage(sum, st)
	assert.Contains(t, msg, "Compl.: Apto 12")
	assert.NotContains(t, msg, "Obs:", "no order note, no Obs section")
}

func TestComposeMessage_DashesForMissingFields(t *testing.T) {
	st := NewState()
	sum := Summary{Subtotal: dec("0"), DeliveryFee: dec("5"), Total: dec("0")}

	msg := ComposeMessage(sum, st)
	require.Contains(t, msg, "🧾 *Pedido - -*")
	assert.Contains(t, msg, "Nome: -")
	assert.Contains(t, msg, "WhatsApp: -")
	assert.Contains(t, msg, "CEP: -")
	assert.Contains(t, msg, "Rua: -, Nº: -")
	// The fee only applies to non-empty carts.
	assert.Contains(t, msg, "Entrega: R$ 0,00")
}
