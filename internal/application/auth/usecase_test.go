package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/facturacion-api/pkg/jwt"
)

const (
	secret    = "auth-test-secret"
	companyID = "00000000-0000-0000-0000-0000000000aa"
)

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Companies().Create(context.Background(), &entity.Company{ID: companyID, Name: "Emisor", NIT: "900123456-8"}))
	return auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "facturacion-test"})
}

func TestRegisterYLogin(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123", CompanyID: companyID})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, user.Role)
	assert.Equal(t, "ana@example.com", user.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "otra-clave", CompanyID: companyID})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	userID, gotCompany, role, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, companyID, gotCompany)
	assert.Equal(t, entity.RoleVendedor, role)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, "Emisor", out.CompanyName)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), out.ExpiresAt, 5*time.Second)
}

func TestLogin_Errores(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123", CompanyID: companyID, Role: entity.RoleContador})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_EmpresaInexistente(t *testing.T) {
	uc := newAuth(t)
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "ana@example.com", Password: "secreto123", CompanyID: "00000000-0000-0000-0000-0000000000bb",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_EmailSinDistinguirMayusculas(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Ana@Example.com ", Password: "secreto123", CompanyID: companyID})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.User.Email)
}

func TestLogin_EmpresaSuspendida(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: companyID, NIT: "900123456-8", Status: "suspended"}))
	uc := auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: secret, ExpMinutes: 5})
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@example.com", Password: "secreto123", CompanyID: companyID})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
