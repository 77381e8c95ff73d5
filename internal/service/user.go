package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/hash"
	"github.com/trananhduc/fashion_shop/internal/models"
	"github.com/trananhduc/fashion_shop/internal/repo"
	"github.com/trananhduc/fashion_shop/internal/transport"
)

// UserService covers account administration: listing, role assignment,
// enabling and disabling accounts, and self-service profile updates.
type UserService struct {
	Repo *repo.GormRepo
	Auth *AuthService
}

func NewUserService(r *repo.GormRepo, auth *AuthService) *UserService {
	return &UserService{Repo: r, Auth: auth}
}

func (svc *UserService) List(ctx context.Context, p models.Principal) ([]models.User, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.Repo.ListUsers(ctx)
}

func (svc *UserService) Get(ctx context.Context, p models.Principal, id uint) (*models.User, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	user, err := svc.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (svc *UserService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	if err := svc.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// SetRole assigns USER, STAFF or ADMIN to an existing account. This is the
// only way a privileged principal is minted through the API.
func (svc *UserService) SetRole(ctx context.Context, p models.Principal, id uint, rawRole string) (*models.User, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	role, ok := models.ParseRole(rawRole)
	if !ok {
		return nil, fmt.Errorf("%w: role %q", ErrValidation, rawRole)
	}

	user, err := svc.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.Role = role
	if err := svc.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive locks or unlocks an account. A locked account keeps its data
// but can no longer log in.
func (svc *UserService) SetActive(ctx context.Context, p models.Principal, id uint, active bool) (*models.User, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	user, err := svc.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.IsActive = active
	if err := svc.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (svc *UserService) CreateAdmin(ctx context.Context, p models.Principal, username, name, password string) (*models.User, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.Auth.register(ctx, username, name, password, models.RoleAdmin)
}

// UpdateMe lets any logged-in account change its own display name and
// password. Username and role are not self-serviceable.
func (svc *UserService) UpdateMe(ctx context.Context, p models.Principal, req transport.UpdateMeRequest) (*models.User, error) {
	user, err := svc.Repo.GetUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", ErrValidation)
		}
		passwordHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}

	if err := svc.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (svc *UserService) Customers(ctx context.Context, p models.Principal, offset, limit int) ([]repo.CustomerStats, int64, error) {
	if !p.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	return svc.Repo.Customers(ctx, offset, limit)
}
