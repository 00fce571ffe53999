package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByNIT(ctx context.Context, nit string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	// UpsertModule activa o desactiva un módulo de la empresa.
	UpsertModule(ctx context.Context, module *entity.CompanyModule) error
}
