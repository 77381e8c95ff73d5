package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/hash"
	"github.com/trananhduc/fashion_shop/internal/models"
	"github.com/trananhduc/fashion_shop/internal/repo"
)

const accessTokenTTL = 7 * 24 * time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func NewAuthService(r *repo.GormRepo, jwtSecret []byte) *AuthService {
	return &AuthService{Repo: r, JWTSecret: jwtSecret}
}

func (svc *AuthService) Register(ctx context.Context, username, name, password string) (*models.User, error) {
	return svc.register(ctx, username, name, password, models.RoleUser)
}

func (svc *AuthService) register(ctx context.Context, username, name, password string, role models.Role) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	if err := svc.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username %q already exists", ErrConflict, username)
		}
		return nil, err
	}
	return user, nil
}

func (svc *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := svc.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: bad credentials", ErrUnauthenticated)
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: account disabled", ErrForbidden)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: bad credentials", ErrUnauthenticated)
	}

	token, err := svc.SignAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (svc *AuthService) Me(ctx context.Context, p models.Principal) (*models.User, error) {
	user, err := svc.Repo.GetUser(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (svc *AuthService) SignAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": string(user.Role),
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(svc.JWTSecret)
}
