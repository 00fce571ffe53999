package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// PartnerRepository define el puerto de persistencia para Partner y su historial de nombres.
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id string) (*entity.Partner, error)
	GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Partner, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Partner, error)
	Update(ctx context.Context, partner *entity.Partner) error
	// AddNameChange agrega una fila al historial (append-only).
	AddNameChange(ctx context.Context, change *entity.PartnerNameChange) error
	// ListNameChanges devuelve el historial ordenado por change_date y luego por orden de registro.
	ListNameChanges(ctx context.Context, partnerID string) ([]*entity.PartnerNameChange, error)
}
