package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// Create persiste un nuevo producto. El SKU es único por empresa.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.CompanyID == product.CompanyID && p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = productRow(*product)
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p := entity.Product(row)
	return &p, nil
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU; nil si no existe.
func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.products {
		if row.CompanyID == companyID && row.SKU == sku {
			p := entity.Product(row)
			return &p, nil
		}
	}
	return nil, nil
}

// ListByCompany lista productos de la empresa ordenados por nombre.
func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	var all []*entity.Product
	for _, row := range r.s.products {
		if row.CompanyID == companyID {
			p := entity.Product(row)
			all = append(all, &p)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}
