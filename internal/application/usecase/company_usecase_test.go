package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
)

func TestCompanyCreate_NormalizaNIT(t *testing.T) {
	uc := usecase.NewCompanyUseCase(memory.NewStore().Companies())
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: "Emisor", NIT: "900.123.456-8"})
	require.NoError(t, err)
	assert.Equal(t, "900123456-8", out.NIT)
	assert.Equal(t, "active", out.Status)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "Otra", NIT: "9001234568"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "Mala", NIT: "900123456-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActivateModule(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewCompanyUseCase(store.Companies())
	modules := usecase.NewModuleService(store.Companies())
	ctx := context.Background()
	company, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: "Emisor", NIT: "800197268-4"})
	require.NoError(t, err)

	_, err = uc.ActivateModule(ctx, company.ID, dto.ActivateModuleRequest{ModuleName: "inventario"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ActivateModule(ctx, "no-existe", dto.ActivateModuleRequest{ModuleName: entity.ModuleBilling})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := uc.ActivateModule(ctx, company.ID, dto.ActivateModuleRequest{ModuleName: entity.ModuleFixedDiscount})
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	active, err := modules.HasActiveModule(ctx, company.ID, entity.ModuleFixedDiscount)
	require.NoError(t, err)
	assert.False(t, active, "sin facturación la extensión no aplica")

	_, err = uc.ActivateModule(ctx, company.ID, dto.ActivateModuleRequest{ModuleName: entity.ModuleBilling})
	require.NoError(t, err)
	active, err = modules.HasActiveModule(ctx, company.ID, entity.ModuleFixedDiscount)
	require.NoError(t, err)
	assert.True(t, active)

	off := false
	_, err = uc.ActivateModule(ctx, company.ID, dto.ActivateModuleRequest{ModuleName: entity.ModuleFixedDiscount, Active: &off})
	require.NoError(t, err)
	active, err = modules.HasActiveModule(ctx, company.ID, entity.ModuleFixedDiscount)
	require.NoError(t, err)
	assert.False(t, active)

	expired := time.Now().Add(-time.Hour)
	_, err = uc.ActivateModule(ctx, company.ID, dto.ActivateModuleRequest{ModuleName: entity.ModuleBilling, ExpiresAt: &expired})
	require.NoError(t, err)
	active, err = modules.HasActiveModule(ctx, company.ID, entity.ModuleBilling)
	require.NoError(t, err)
	assert.False(t, active, "módulo vencido")

	_, err = uc.ActivateModule(ctx, company.ID, dto.ActivateModuleRequest{ModuleName: entity.ModulePartnerNameHistory})
	require.NoError(t, err)
	active, err = modules.HasActiveModule(ctx, company.ID, entity.ModulePartnerNameHistory)
	require.NoError(t, err)
	assert.False(t, active, "facturación vencida")
}

func TestHasActiveModule_Desconocido(t *testing.T) {
	modules := usecase.NewModuleService(memory.NewStore().Companies())

	active, err := modules.HasActiveModule(context.Background(), "c1", "inventario")
	require.NoError(t, err)
	assert.False(t, active)

	_, err = modules.HasActiveModule(context.Background(), "", entity.ModuleBilling)
	assert.Error(t, err)
}
