package memory

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create persiste un nuevo usuario. El email es único por empresa.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email && u.CompanyID == user.CompanyID {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[user.ID] = userRow(*user)
	return nil
}

// GetByEmailAndCompany obtiene un usuario por email y empresa; nil si no existe.
func (r *UserRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if row.Email == email && row.CompanyID == companyID {
			u := entity.User(row)
			return &u, nil
		}
	}
	return nil, nil
}

// FindByEmail obtiene el primer usuario con ese email (cualquier empresa).
func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if row.Email == email {
			u := entity.User(row)
			return &u, nil
		}
	}
	return nil, nil
}
