package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// moduleDependencies lista, por módulo, los módulos que también deben estar activos.
// Las extensiones de factura no tienen sentido sin facturación.
var moduleDependencies = map[string][]string{
	entity.ModuleFixedDiscount:      {entity.ModuleBilling},
	entity.ModulePartnerNameHistory: {entity.ModuleBilling},
}

// ModuleService decide si una empresa puede usar un módulo.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule informa si el módulo y todas sus dependencias están activos y sin vencer.
// Un módulo desconocido no está activo. El error se reserva para fallos de persistencia.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: empresa y módulo son obligatorios")
	}
	if !entity.IsKnownModule(moduleName) {
		return false, nil
	}
	for _, name := range append([]string{moduleName}, moduleDependencies[moduleName]...) {
		ok, err := s.companyRepo.HasActiveModule(ctx, companyID, name)
		if err != nil {
			return false, fmt.Errorf("module %s: %w", name, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
