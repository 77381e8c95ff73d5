package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CustomerStats is one customer with their order history rolled up.
type CustomerStats struct {
	User        models.User    `json:"user"`
	TotalOrders int64          `json:"total_orders"`
	TotalSpent  int64          `json:"total_spent"`
	LastOrderAt *time.Time     `json:"last_order_at,omitempty"`
	Orders      []models.Order `json:"orders"`
}

// Customers pages through USER-role accounts and aggregates each one's
// orders. The aggregate covers every order regardless of status.
func (r *GormRepo) Customers(ctx context.Context, offset, limit int) ([]CustomerStats, int64, error) {
	db := r.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := db.Where("role = ?", models.RoleUser).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	stats := make([]CustomerStats, 0, len(users))
	for _, user := range users {
		var orders []models.Order
		err := db.Preload("Items").
			Preload("Voucher").
			Where("user_id = ?", user.ID).
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			return nil, 0, err
		}

		cs := CustomerStats{User: user, TotalOrders: int64(len(orders)), Orders: orders}
		for i := range orders {
			cs.TotalSpent += orders[i].Total
		}
		if len(orders) > 0 {
			cs.LastOrderAt = &orders[0].CreatedAt
		}
		stats = append(stats, cs)
	}
	return stats, total, nil
}
