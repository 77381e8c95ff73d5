package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/models"
)

func (r *GormRepo) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *GormRepo) GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var v models.Voucher
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) GetVoucher(ctx context.Context, id uint) (*models.Voucher, error) {
	var v models.Voucher
	if err := r.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) CreateVoucher(ctx context.Context, v *models.Voucher) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) SaveVoucher(ctx context.Context, v *models.Voucher) error {
	return r.DB.WithContext(ctx).Save(v).Error
}

func (r *GormRepo) DeleteVoucher(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Voucher{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RedeemVoucher reserves one use of the code: a single conditional update
// decrements the remaining quantity only while the voucher is active and
// has uses left. Two concurrent redemptions of the last unit cannot both
// succeed. Returns the voucher and false when the code exists but cannot
// be redeemed; gorm.ErrRecordNotFound when the code is unknown.
func (r *GormRepo) RedeemVoucher(ctx context.Context, code string) (*models.Voucher, bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("code = ? AND is_active = ? AND quantity > 0", code, true).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		v, err := r.GetVoucherByCode(ctx, code)
		if err != nil {
			return nil, false, err
		}
		return v, false, nil
	}

	v, err := r.GetVoucherByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
