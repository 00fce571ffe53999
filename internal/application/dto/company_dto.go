package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	NIT     string `json:"nit" validate:"required,min=1,max=20"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// ActivateModuleRequest body para POST /api/companies/:id/modules.
type ActivateModuleRequest struct {
	ModuleName string     `json:"module_name" validate:"required,oneof=billing account_fixed_discount partner_name_history"`
	Active     *bool      `json:"active"` // nil = true
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// CompanyModuleResponse estado de un módulo de la empresa.
type CompanyModuleResponse struct {
	CompanyID  string     `json:"company_id"`
	ModuleName string     `json:"module_name"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
