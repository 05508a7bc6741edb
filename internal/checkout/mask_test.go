package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"1", "(1"},
		{"11", "(11"},
		{"119", "(11) 9"},
		{"119876", "(11) 9876"},
		{"1198765", "(11) 9876-5"},
		{"1198765432", "(11) 9876-5432"},
		{"11987654321", "(11) 98765-4321"},
		{"119876543210000", "(11) 98765-4321"},
		{"(64) 99999-9999", "(64) 99999-9999"},
		{"abc64 9-9999x9999", "(64) 9999-9999"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskPhone(c.in), "input %q", c.in)
	}
}

func TestMaskCEP(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"0131", "0131"},
		{"01310", "01310"},
		{"013101", "01310-1"},
		{"01310100", "01310-100"},
		{"01310-100", "01310-100"},
		{"0131010055", "01310-100"},
		{"74000000", "74000-000"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskCEP(c.in), "input %q", c.in)
	}
}

func TestMaskMoney(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", ""},
		{"50", "50"},
		{"50,00", "50,00"},
		{"50.00", "50,00"},
		{"R$ 50,5", "50,5"},
		{",75", "0,75"},
		{".75", "0,75"},
		{"1234567", "123456"},
		{"12,345", "12,34"},
		{"1,2,3", "1,2"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskMoney(c.in), "input %q", c.in)
	}
}

func TestMaskHouseNumber(t *testing.T) {
	assert.Equal(t, "10", MaskHouseNumber("10"))
	assert.Equal(t, "123456", MaskHouseNumber("1234567"))
	assert.Equal(t, "42", MaskHouseNumber("ap. 42"))
	assert.Equal(t, "", MaskHouseNumber("s/n"))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "6499999999", DigitsOnly("(64) 9999-9999"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 6,00", FormatBRL(dec("6")))
	assert.Equal(t, "R$ 0,50", FormatBRL(dec("0.5")))
	assert.Equal(t, "R$ 1.234,56", FormatBRL(dec("1234.56")))
	assert.Equal(t, "R$ 1.000.000,00", FormatBRL(dec("1000000")))
	assert.Equal(t, "-R$ 12,30", FormatBRL(dec("-12.3")))
}
