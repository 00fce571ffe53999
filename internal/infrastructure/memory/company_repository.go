package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación en memoria de CompanyRepository.
type CompanyRepo struct {
	s *Store
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(_ context.Context, company *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.NIT == company.NIT {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[company.ID] = companyRow(*company)
	return nil
}

// GetByID obtiene una empresa por ID; nil si no existe.
func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	c := entity.Company(row)
	return &c, nil
}

// GetByNIT obtiene una empresa por NIT; nil si no existe.
func (r *CompanyRepo) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.companies {
		if row.NIT == nit {
			c := entity.Company(row)
			return &c, nil
		}
	}
	return nil, nil
}

// List devuelve empresas ordenadas por fecha de creación descendente.
func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	all := make([]*entity.Company, 0, len(r.s.companies))
	for _, row := range r.s.companies {
		c := entity.Company(row)
		all = append(all, &c)
	}
	r.s.mu.RUnlock()
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
func (r *CompanyRepo) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.modules[moduleKey{companyID, moduleName}]
	if !ok || !m.IsActive {
		return false, nil
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(time.Now()), nil
}

// UpsertModule activa o desactiva un módulo de la empresa.
func (r *CompanyRepo) UpsertModule(_ context.Context, module *entity.CompanyModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[module.CompanyID]; !ok {
		return domain.ErrNotFound
	}
	key := moduleKey{module.CompanyID, module.ModuleName}
	row := moduleRow(*module)
	row.ExpiresAt = copyTime(module.ExpiresAt)
	if prev, ok := r.s.modules[key]; ok {
		row.ID = prev.ID
		row.CreatedAt = prev.CreatedAt
	}
	r.s.modules[key] = row
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
