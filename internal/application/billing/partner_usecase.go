package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// PartnerUseCase casos de uso para terceros y su historial de nombres.
type PartnerUseCase struct {
	txRunner BillingTxRunner
	repo     repository.PartnerRepository
	now      func() time.Time
}

// NewPartnerUseCase construye el caso de uso.
func NewPartnerUseCase(txRunner BillingTxRunner, repo repository.PartnerRepository) *PartnerUseCase {
	return &PartnerUseCase{txRunner: txRunner, repo: repo, now: time.Now}
}

// Create crea un nuevo tercero.
func (uc *PartnerUseCase) Create(ctx context.Context, companyID string, in dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCompanyAndTaxID(ctx, companyID, in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	partner := &entity.Partner{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, partner); err != nil {
		return nil, err
	}
	return toPartnerResponse(partner), nil
}

// Get obtiene un tercero de la empresa.
func (uc *PartnerUseCase) Get(ctx context.Context, companyID, id string) (*dto.PartnerResponse, error) {
	p, err := uc.load(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

// List lista terceros de la empresa.
func (uc *PartnerUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.PartnerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartnerResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPartnerResponse(p))
	}
	return out, nil
}

// Rename cambia el nombre del tercero y deja el anterior en el historial.
// El nuevo nombre rige desde EffectiveDate (hoy si va vacío). Renombrar al mismo
// nombre no registra nada. EffectiveDate no puede ser anterior al último cambio
// registrado: el historial es una cadena y OldName siempre es el nombre vigente.
func (uc *PartnerUseCase) Rename(ctx context.Context, companyID, id string, in dto.RenamePartnerRequest) (*dto.PartnerResponse, error) {
	newName := strings.TrimSpace(in.Name)
	if newName == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	effective := dateOf(now)
	if in.EffectiveDate != "" {
		d, err := parseDate(in.EffectiveDate)
		if err != nil {
			return nil, err
		}
		effective = *d
	}

	var out *entity.Partner
	err := uc.txRunner.RunBilling(ctx, func(partnerRepo repository.PartnerRepository, _ repository.InvoiceRepository) error {
		p, err := uc.load(ctx, partnerRepo, companyID, id)
		if err != nil {
			return err
		}
		out = p
		if p.Name == newName {
			return nil
		}
		changes, err := partnerRepo.ListNameChanges(ctx, p.ID)
		if err != nil {
			return err
		}
		if n := len(changes); n > 0 && effective.Before(dateOf(changes[n-1].ChangeDate)) {
			return fmt.Errorf("%w: el cambio de nombre no puede ser anterior al %s",
				domain.ErrInvalidInput, changes[n-1].ChangeDate.Format(dto.DateLayout))
		}
		change := &entity.PartnerNameChange{
			ID:         uuid.New().String(),
			PartnerID:  p.ID,
			OldName:    p.Name,
			NewName:    newName,
			ChangeDate: effective,
			CreatedAt:  now,
		}
		if err := partnerRepo.AddNameChange(ctx, change); err != nil {
			return err
		}
		p.Name = newName
		p.UpdatedAt = now
		return partnerRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toPartnerResponse(out), nil
}

// NameHistory devuelve los cambios de nombre del tercero, del más antiguo al más reciente.
func (uc *PartnerUseCase) NameHistory(ctx context.Context, companyID, id string) ([]dto.PartnerNameChangeResponse, error) {
	p, err := uc.load(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	changes, err := uc.repo.ListNameChanges(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerNameChangeResponse, 0, len(changes))
	for _, ch := range changes {
		out = append(out, dto.PartnerNameChangeResponse{
			ID:         ch.ID,
			OldName:    ch.OldName,
			NewName:    ch.NewName,
			ChangeDate: ch.ChangeDate.Format(dto.DateLayout),
		})
	}
	return out, nil
}

// NameAt devuelve el nombre que tenía el tercero en la fecha indicada.
func (uc *PartnerUseCase) NameAt(ctx context.Context, companyID, id, date string) (*dto.PartnerNameAtResponse, error) {
	asOf, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if asOf == nil {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.load(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	changes, err := uc.repo.ListNameChanges(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.PartnerNameAtResponse{
		PartnerID: p.ID,
		Date:      asOf.Format(dto.DateLayout),
		Name:      namehistory.NameAt(p.Name, changes, *asOf),
	}, nil
}

func (uc *PartnerUseCase) load(ctx context.Context, repo repository.PartnerRepository, companyID, id string) (*entity.Partner, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func toPartnerResponse(p *entity.Partner) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		TaxID:     p.TaxID,
		Email:     p.Email,
		Phone:     p.Phone,
	}
}

// parseDate interpreta YYYY-MM-DD; vacío devuelve nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
