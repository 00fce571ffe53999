package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	statusActive = "active"
	tokenType    = "Bearer"
)

// JWTConfig parámetros de emisión del token de acceso.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase registra usuarios de una empresa y emite tokens de acceso.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
}

func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg}
}

// RegisterUser da de alta un usuario en una empresa existente.
// El email se guarda en minúsculas; repetido dentro de la empresa es domain.ErrEmailAlreadyExists.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if _, err := uc.company(ctx, in.CompanyID); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmailAndCompany(ctx, email, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	user, err := newUser(in, email)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login valida las credenciales y emite un token para la empresa del usuario.
// Usuario o empresa no activos devuelven domain.ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != statusActive {
		return nil, domain.ErrForbidden
	}
	company, err := uc.company(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if !isActive(company.Status) {
		return nil, domain.ErrForbidden
	}

	issuedAt := time.Now()
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	return &dto.LoginResponse{
		Token:       token,
		TokenType:   tokenType,
		ExpiresAt:   issuedAt.Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		CompanyName: company.Name,
		User:        *toUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) company(ctx context.Context, id string) (*entity.Company, error) {
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// isActive trata el estado vacío como activo (filas anteriores a la columna status).
func isActive(status string) bool {
	return status == "" || status == statusActive
}

func newUser(in dto.RegisterRequest, email string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash de contraseña: %w", err)
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Status:       statusActive,
	}
	if user.Name == "" {
		user.Name = email
	}
	if user.Role == "" {
		user.Role = entity.RoleVendedor
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
