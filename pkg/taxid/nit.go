// Package taxid valida y normaliza el NIT colombiano (módulo 11 de la DIAN).
package taxid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidNIT el NIT no tiene el formato esperado o su dígito de verificación no coincide.
var ErrInvalidNIT = errors.New("NIT inválido")

// pesos del módulo 11, aplicados de derecha a izquierda sobre la base del NIT.
var weights = [...]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

const minBaseDigits = 6

// CheckDigit calcula el dígito de verificación de la base (solo dígitos, sin DV).
func CheckDigit(base string) (byte, error) {
	if len(base) < minBaseDigits || len(base) > len(weights) {
		return 0, fmt.Errorf("%w: la base debe tener entre %d y %d dígitos", ErrInvalidNIT, minBaseDigits, len(weights))
	}
	var sum int
	for i := 0; i < len(base); i++ {
		c := base[len(base)-1-i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: carácter %q", ErrInvalidNIT, c)
		}
		sum += int(c-'0') * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Normalize valida el NIT y lo devuelve como "<base>-<dv>".
// Acepta "900.123.456-8", "900123456-8" o "9001234568" (el último dígito es el DV).
func Normalize(nit string) (string, error) {
	base, dv, hasDash := strings.Cut(strings.TrimSpace(nit), "-")
	base = digits(base)
	if hasDash {
		dv = digits(dv)
	} else if len(base) > 0 {
		base, dv = base[:len(base)-1], base[len(base)-1:]
	}
	if len(dv) != 1 {
		return "", fmt.Errorf("%w: falta el dígito de verificación", ErrInvalidNIT)
	}
	want, err := CheckDigit(base)
	if err != nil {
		return "", err
	}
	if dv[0] != want {
		return "", fmt.Errorf("%w: dígito de verificación esperado %c, recibido %s", ErrInvalidNIT, want, dv)
	}
	return base + "-" + dv, nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ' ':
		default:
			// cualquier otro carácter invalida el número
			return ""
		}
	}
	return b.String()
}
