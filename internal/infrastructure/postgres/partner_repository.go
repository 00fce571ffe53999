package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implementación de PartnerRepository (usable con pool o tx).
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `id, company_id, name, tax_id, email, phone, created_at, updated_at`

// Create persiste un nuevo tercero.
func (r *PartnerRepo) Create(ctx context.Context, p *entity.Partner) error {
	query := `
		INSERT INTO partners (` + partnerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Name, p.TaxID, p.Email, p.Phone, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

// GetByID obtiene un tercero por ID.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	var p entity.Partner
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.TaxID, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return &p, nil
}

// GetByCompanyAndTaxID obtiene un tercero por empresa y NIT/cédula.
func (r *PartnerRepo) GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE company_id = $1 AND tax_id = $2`
	var p entity.Partner
	err := r.q.QueryRow(ctx, query, companyID, taxID).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.TaxID, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner by tax_id: %w", err)
	}
	return &p, nil
}

// ListByCompany lista terceros de la empresa con paginación.
func (r *PartnerRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners
		WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Partner
	for rows.Next() {
		var p entity.Partner
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.TaxID, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza un tercero.
func (r *PartnerRepo) Update(ctx context.Context, p *entity.Partner) error {
	query := `
		UPDATE partners SET name = $2, tax_id = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Name, p.TaxID, p.Email, p.Phone, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update partner: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddNameChange inserta una fila en partner_name_history.
func (r *PartnerRepo) AddNameChange(ctx context.Context, c *entity.PartnerNameChange) error {
	query := `
		INSERT INTO partner_name_history (id, partner_id, old_name, new_name, change_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.PartnerID, c.OldName, c.NewName, c.ChangeDate, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert partner name change: %w", err)
	}
	return nil
}

// ListNameChanges devuelve el historial del tercero ordenado por fecha de cambio y orden de registro.
func (r *PartnerRepo) ListNameChanges(ctx context.Context, partnerID string) ([]*entity.PartnerNameChange, error) {
	query := `
		SELECT id, partner_id, old_name, new_name, change_date, created_at
		FROM partner_name_history
		WHERE partner_id = $1
		ORDER BY change_date, created_at, seq`
	rows, err := r.q.Query(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list partner name changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.PartnerNameChange
	for rows.Next() {
		var c entity.PartnerNameChange
		if err := rows.Scan(&c.ID, &c.PartnerID, &c.OldName, &c.NewName, &c.ChangeDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan partner name change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
