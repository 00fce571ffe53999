package entity

import "time"

// Company representa una organización/tenant del sistema.
type Company struct {
	ID        string
	Name      string
	NIT       string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos activables por empresa (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleBilling            = "billing"
	ModuleFixedDiscount      = "account_fixed_discount"
	ModulePartnerNameHistory = "partner_name_history"
)

// IsKnownModule informa si name es uno de los módulos Module*.
func IsKnownModule(name string) bool {
	switch name {
	case ModuleBilling, ModuleFixedDiscount, ModulePartnerNameHistory:
		return true
	}
	return false
}

// CompanyModule representa la activación de un módulo en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
