package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/models"
)

// DecrementStock subtracts qty from a variant's stock with a conditional
// update, so the check and the write are one statement. Returns false when
// the variant is missing or the remaining stock is smaller than qty.
func (r *GormRepo) DecrementStock(ctx context.Context, productID uint, qty int64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementStock has no failure mode besides a store error; stock has no
// upper bound.
func (r *GormRepo) IncrementStock(ctx context.Context, productID uint, qty int64) error {
	return r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
}
