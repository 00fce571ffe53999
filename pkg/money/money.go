// Package money agrupa utilidades monetarias: redondeo por precisión y
// precisión de cada moneda según ISO 4217.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Round redondea v al múltiplo más cercano de rounding (mitad lejos de cero).
// Con rounding <= 0 devuelve v sin cambios.
//
//	Round(12.345, 0.01) = 12.35
//	Round(7.5, 1)       = 8
//	Round(-2.5, 1)      = -3
func Round(v, rounding decimal.Decimal) decimal.Decimal {
	if rounding.Sign() <= 0 {
		return v
	}
	return v.Div(rounding).Round(0).Mul(rounding)
}

// Rounding devuelve el incremento mínimo de la moneda (0.01 para USD, 1 para JPY).
func Rounding(code string) (decimal.Decimal, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("moneda %q: %w", code, err)
	}
	scale, increment := currency.Standard.Rounding(unit)
	if increment <= 0 {
		increment = 1
	}
	return decimal.New(int64(increment), int32(-scale)), nil
}

// MustRounding igual que Rounding pero usa 0.01 si el código no es válido.
func MustRounding(code string) decimal.Decimal {
	r, err := Rounding(code)
	if err != nil {
		return decimal.New(1, -2)
	}
	return r
}
