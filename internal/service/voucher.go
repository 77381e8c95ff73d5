package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/models"
	"github.com/trananhduc/fashion_shop/internal/repo"
	"github.com/trananhduc/fashion_shop/internal/transport"
)

// VoucherService owns the voucher ledger. Redemption happens inside order
// creation (OrderService); there is deliberately no release path on order
// cancellation or deletion, so a consumed use stays consumed.
type VoucherService struct {
	Repo *repo.GormRepo
}

func NewVoucherService(r *repo.GormRepo) *VoucherService {
	return &VoucherService{Repo: r}
}

func (svc *VoucherService) List(ctx context.Context) ([]models.Voucher, error) {
	return svc.Repo.ListVouchers(ctx)
}

func (svc *VoucherService) GetByCode(ctx context.Context, code string) (*models.Voucher, error) {
	v, err := svc.Repo.GetVoucherByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (svc *VoucherService) Create(ctx context.Context, p models.Principal, req transport.CreateVoucherRequest) (*models.Voucher, error) {
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code required", ErrValidation)
	}
	if req.Discount < 0 || req.Quantity < 0 {
		return nil, fmt.Errorf("%w: discount and quantity must be >= 0", ErrValidation)
	}

	voucher := &models.Voucher{
		Code:     code,
		Discount: req.Discount,
		Quantity: req.Quantity,
		IsActive: true,
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}
	if err := svc.Repo.CreateVoucher(ctx, voucher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: voucher code %q already exists", ErrConflict, code)
		}
		return nil, err
	}
	return voucher, nil
}

// Update is the staff-level edit: every field except the code.
func (svc *VoucherService) Update(ctx context.Context, p models.Principal, id uint, req transport.UpdateVoucherRequest) (*models.Voucher, error) {
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	return svc.apply(ctx, id, transport.AdminUpdateVoucherRequest{
		Discount: req.Discount,
		Quantity: req.Quantity,
		IsActive: req.IsActive,
	})
}

// AdminUpdate may also rename the code; a duplicate surfaces as a conflict.
func (svc *VoucherService) AdminUpdate(ctx context.Context, p models.Principal, id uint, req transport.AdminUpdateVoucherRequest) (*models.Voucher, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.apply(ctx, id, req)
}

func (svc *VoucherService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	if err := svc.Repo.DeleteVoucher(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (svc *VoucherService) apply(ctx context.Context, id uint, req transport.AdminUpdateVoucherRequest) (*models.Voucher, error) {
	voucher, err := svc.Repo.GetVoucher(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: code required", ErrValidation)
		}
		voucher.Code = code
	}
	if req.Discount != nil {
		if *req.Discount < 0 {
			return nil, fmt.Errorf("%w: discount must be >= 0", ErrValidation)
		}
		voucher.Discount = *req.Discount
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must be >= 0", ErrValidation)
		}
		voucher.Quantity = *req.Quantity
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := svc.Repo.SaveVoucher(ctx, voucher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: voucher code %q already exists", ErrConflict, voucher.Code)
		}
		return nil, err
	}
	return voucher, nil
}
