package whatsapp

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	link := Link("5564999663524", "*NOVO PEDIDO*\n\ntotal: R$ 6.00")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/5564999663524?text="))
	assert.Contains(t, link, "%20", "spaces encode as %20")
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "%0A", "newlines survive encoding")
}

func TestComposeOrder(t *testing.T) {
	items := []Item{
		{Name: "X-Burger", Quantity: 2, Price: decimal.RequireFromString("18.5"), Addons: []string{"Bacon", "Cheddar"}},
		{Name: "Coca-Cola", Quantity: 1, Price: decimal.NewFromInt(6), Note: "Gelada"},
	}

	msg := ComposeOrder(items)
	require.True(t, strings.HasPrefix(msg, "*NOVO PEDIDO*\n\n"))
	assert.Contains(t, msg, "• X-Burger\nQuantidade: 2\n💰 Valor: R$ 37.00\nAdicionais: Bacon, Cheddar\n")
	assert.Contains(t, msg, "• Coca-Cola\nQuantidade: 1\n💰 Valor: R$ 6.00\nObs: Gelada\n")
	assert.Contains(t, msg, "TOTAL: R$ 43.00\n")
	assert.True(t, strings.HasSuffix(msg, "Pedido feito pelo site"))
}

func TestComposeDiscountStock(t *testing.T) {
	items := []Item{{Name: "Batata", Quantity: 3, Price: decimal.NewFromInt(10)}}

	msg := ComposeDiscountStock(items)
	assert.True(t, strings.HasPrefix(msg, "*NOVA BAIXA DE ESTOQUE*\n\n"))
	assert.Contains(t, msg, "TOTAL: R$ 30.00\n")
	assert.True(t, strings.HasSuffix(msg, "Baixa registrada pelo site"))
}

func TestComposeOrder_EmptyItems(t *testing.T) {
	assert.Empty(t, ComposeOrder(nil))
	assert.Empty(t, ComposeDiscountStock([]Item{}))
}
