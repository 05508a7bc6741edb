package checkout

import "strings"

// Input masks, applied as the user types. They mirror the storefront's
// Brazilian formats exactly: tests elsewhere depend on the thresholds.

// DigitsOnly strips everything but 0-9.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone formats a BR phone progressively: "(DD", "(DD) DDDD",
// "(DD) DDDD-DDDD" and "(DD) DDDDD-DDDD", capped at 11 digits.
func MaskPhone(input string) string {
	d := DigitsOnly(input)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// MaskCEP formats a postal code as DDDDD-DDD, capped at 8 digits.
func MaskCEP(input string) string {
	d := DigitsOnly(input)
	if len(d) > 8 {
		d = d[:8]
	}
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

// MaskMoney normalizes a free-typed amount: periods become commas, only the
// first comma survives, the integer part caps at 6 digits and the fraction
// at 2. Empty integer and fraction yield an empty string.
func MaskMoney(input string) string {
	var cleaned strings.Builder
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9', r == ',':
			cleaned.WriteRune(r)
		case r == '.':
			cleaned.WriteRune(',')
		}
	}

	parts := strings.SplitN(cleaned.String(), ",", 3)
	intPart := DigitsOnly(parts[0])
	if len(intPart) > 6 {
		intPart = intPart[:6]
	}
	fracPart := ""
	if len(parts) > 1 {
		fracPart = DigitsOnly(parts[1])
		if len(fracPart) > 2 {
			fracPart = fracPart[:2]
		}
	}

	if intPart == "" && fracPart == "" {
		return ""
	}
	if fracPart != "" {
		if intPart == "" {
			intPart = "0"
		}
		return intPart + "," + fracPart
	}
	return intPart
}

// MaskHouseNumber keeps digits only, capped at 6.
func MaskHouseNumber(input string) string {
	d := DigitsOnly(input)
	if len(d) > 6 {
		d = d[:6]
	}
	return d
}
