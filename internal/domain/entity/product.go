package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable.
type Product struct {
	ID        string
	CompanyID string
	SKU       string // código único por empresa
	Name      string
	Price     decimal.Decimal // precio de venta sugerido para las líneas
	TaxRate   decimal.Decimal // porcentaje: 0, 5, 19
	CreatedAt time.Time
	UpdatedAt time.Time
}
