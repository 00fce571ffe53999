package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implementación en memoria de PartnerRepository.
type PartnerRepo struct {
	s *Store
}

// Create persiste un nuevo tercero. El NIT es único por empresa.
func (r *PartnerRepo) Create(_ context.Context, partner *entity.Partner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.partners {
		if p.CompanyID == partner.CompanyID && p.TaxID == partner.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.partners[partner.ID] = partnerRow(*partner)
	return nil
}

// GetByID obtiene un tercero por ID; nil si no existe.
func (r *PartnerRepo) GetByID(_ context.Context, id string) (*entity.Partner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.partners[id]
	if !ok {
		return nil, nil
	}
	p := entity.Partner(row)
	return &p, nil
}

// GetByCompanyAndTaxID obtiene un tercero por empresa y NIT; nil si no existe.
func (r *PartnerRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Partner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.partners {
		if row.CompanyID == companyID && row.TaxID == taxID {
			p := entity.Partner(row)
			return &p, nil
		}
	}
	return nil, nil
}

// ListByCompany lista terceros de la empresa ordenados por nombre.
func (r *PartnerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Partner, error) {
	r.s.mu.RLock()
	var all []*entity.Partner
	for _, row := range r.s.partners {
		if row.CompanyID == companyID {
			p := entity.Partner(row)
			all = append(all, &p)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

// Update actualiza un tercero existente.
func (r *PartnerRepo) Update(_ context.Context, partner *entity.Partner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.partners[partner.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.partners[partner.ID] = partnerRow(*partner)
	return nil
}

// AddNameChange agrega una fila al historial.
func (r *PartnerRepo) AddNameChange(_ context.Context, change *entity.PartnerNameChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.partners[change.PartnerID]; !ok {
		return domain.ErrNotFound
	}
	r.s.changes = append(r.s.changes, changeRow(*change))
	return nil
}

// ListNameChanges devuelve el historial ordenado por fecha de cambio y luego por orden de registro.
func (r *PartnerRepo) ListNameChanges(_ context.Context, partnerID string) ([]*entity.PartnerNameChange, error) {
	r.s.mu.RLock()
	var list []*entity.PartnerNameChange
	for _, row := range r.s.changes {
		if row.PartnerID == partnerID {
			c := entity.PartnerNameChange(row)
			list = append(list, &c)
		}
	}
	r.s.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool { return list[i].ChangeDate.Before(list[j].ChangeDate) })
	return list, nil
}
