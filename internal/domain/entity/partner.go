package entity

import "time"

// Partner representa un tercero (cliente o proveedor) al que se le factura.
type Partner struct {
	ID        string
	CompanyID string
	Name      string // nombre vigente; los anteriores quedan en PartnerNameChange
	TaxID     string // NIT o Cédula
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PartnerNameChange registra un cambio de nombre de un tercero.
// Los registros son inmutables: nunca se modifican ni eliminan.
type PartnerNameChange struct {
	ID         string
	PartnerID  string
	OldName    string
	NewName    string
	ChangeDate time.Time // fecha (sin hora) desde la que rige NewName
	CreatedAt  time.Time
}
