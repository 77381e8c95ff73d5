package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/models"
	"github.com/trananhduc/fashion_shop/internal/repo"
	"github.com/trananhduc/fashion_shop/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func NewOrderService(r *repo.GormRepo) *OrderService {
	return &OrderService{Repo: r}
}

// CreateOrder validates the line items, captures unit prices, redeems the
// optional voucher and persists the order in one transaction. A failure at
// any step leaves no partial order and no consumed voucher use.
func (svc *OrderService) CreateOrder(ctx context.Context, p models.Principal, req transport.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]uint, 0, len(req.Items))
	for i := range req.Items {
		if req.Items[i].Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		ids = append(ids, req.Items[i].ProductID)
	}

	var order *models.Order
	txErr := svc.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		products, err := tx.GetProductsByIDs(ctx, ids)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			product, ok := products[it.ProductID]
			if !ok {
				return fmt.Errorf("%w: product %d", ErrVariantNotFound, it.ProductID)
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				UnitPrice: product.Price,
			})
		}

		var voucherID *uint
		var discount int64
		if req.VoucherCode != "" {
			voucher, ok, err := tx.RedeemVoucher(ctx, req.VoucherCode)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: code %q", ErrVoucherInvalid, req.VoucherCode)
				}
				return err
			}
			if !ok {
				return fmt.Errorf("%w: code %q", ErrVoucherInvalid, req.VoucherCode)
			}
			voucherID = &voucher.ID
			discount = voucher.Discount
		}

		order = &models.Order{
			UserID:    p.UserID,
			Name:      req.Name,
			Phone:     req.Phone,
			Address:   req.Address,
			Note:      req.Note,
			Status:    models.StatusPending,
			Total:     ComputeTotal(items, discount),
			VoucherID: voucherID,
			Items:     items,
		}
		return tx.CreateOrder(ctx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

func (svc *OrderService) GetOrder(ctx context.Context, p models.Principal, id uint) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.IsStaff() && order.UserID != p.UserID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (svc *OrderService) ListMyOrders(ctx context.Context, p models.Principal) ([]models.Order, error) {
	return svc.Repo.ListOrdersByUser(ctx, p.UserID)
}

func (svc *OrderService) ListAllOrders(ctx context.Context, p models.Principal) ([]models.Order, error) {
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	return svc.Repo.ListOrders(ctx)
}

// SetStatus drives the state machine. pending->paid decrements stock for
// every line item inside one transaction: one short variant aborts the
// whole transition and rolls back decrements already applied for earlier
// items. paid->cancelled restores the stock. Nothing else is allowed.
// The final status write is guarded on the status that was read, so a
// concurrent transition that lands first aborts this one wholesale.
func (svc *OrderService) SetStatus(ctx context.Context, p models.Principal, orderID uint, rawStatus string) (*models.Order, error) {
	if !CanTransition(p) {
		return nil, ErrForbidden
	}
	next, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, rawStatus)
	}

	var order *models.Order
	txErr := svc.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !models.CanTransition(order.Status, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, order.Status, next)
		}

		switch {
		case order.Status == models.StatusPending && next == models.StatusPaid:
			for _, it := range order.Items {
				ok, err := tx.DecrementStock(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: product %d", ErrInsufficientStock, it.ProductID)
				}
			}
		case order.Status == models.StatusPaid && next == models.StatusCancelled:
			for _, it := range order.Items {
				if err := tx.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		ok, err := tx.UpdateOrderStatus(ctx, orderID, order.Status, next)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %d changed concurrently", ErrConflict, orderID)
		}
		order.Status = next
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

// AddItem appends a line item, capturing the variant's current price, and
// recomputes the order total in the same transaction.
func (svc *OrderService) AddItem(ctx context.Context, p models.Principal, orderID uint, req transport.AddItemRequest) (*models.OrderItem, int64, error) {
	if req.Quantity <= 0 {
		return nil, 0, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	var item *models.OrderItem
	var total int64
	txErr := svc.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := svc.mutableOrder(ctx, tx, p, orderID)
		if err != nil {
			return err
		}

		product, err := tx.GetProduct(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", ErrVariantNotFound, req.ProductID)
			}
			return err
		}

		item = &models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		}
		if err := tx.CreateOrderItem(ctx, item); err != nil {
			return err
		}

		total, err = svc.recomputeTotal(ctx, tx, order)
		return err
	})
	if txErr != nil {
		return nil, 0, txErr
	}
	return item, total, nil
}

// UpdateItem changes quantity and/or variant of an existing line item.
// Switching the variant re-resolves it against the catalog and captures
// that variant's current price as the new snapshot.
func (svc *OrderService) UpdateItem(ctx context.Context, p models.Principal, orderID, itemID uint, req transport.UpdateItemRequest) (*models.OrderItem, int64, error) {
	if req.Quantity != nil && *req.Quantity <= 0 {
		return nil, 0, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	var item *models.OrderItem
	var total int64
	txErr := svc.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := svc.mutableOrder(ctx, tx, p, orderID)
		if err != nil {
			return err
		}

		item, err = tx.GetOrderItem(ctx, orderID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if req.ProductID != nil && *req.ProductID != item.ProductID {
			product, err := tx.GetProduct(ctx, *req.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrVariantNotFound, *req.ProductID)
				}
				return err
			}
			item.ProductID = product.ID
			item.UnitPrice = product.Price
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}

		if err := tx.SaveOrderItem(ctx, item); err != nil {
			return err
		}

		total, err = svc.recomputeTotal(ctx, tx, order)
		return err
	})
	if txErr != nil {
		return nil, 0, txErr
	}
	return item, total, nil
}

func (svc *OrderService) RemoveItem(ctx context.Context, p models.Principal, orderID, itemID uint) (int64, error) {
	var total int64
	txErr := svc.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := svc.mutableOrder(ctx, tx, p, orderID)
		if err != nil {
			return err
		}

		if err := tx.DeleteOrderItem(ctx, orderID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		total, err = svc.recomputeTotal(ctx, tx, order)
		return err
	})
	if txErr != nil {
		return 0, txErr
	}
	return total, nil
}

// DeleteOrder cascades line items then the order. No stock or voucher
// reversal happens here; a paid order keeps its stock effect.
func (svc *OrderService) DeleteOrder(ctx context.Context, p models.Principal, orderID uint) error {
	return svc.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !CanMutate(p, order) {
			return ErrForbidden
		}
		return tx.DeleteOrder(ctx, orderID)
	})
}

func (svc *OrderService) mutableOrder(ctx context.Context, tx *repo.GormRepo, p models.Principal, orderID uint) (*models.Order, error) {
	order, err := tx.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanMutate(p, order) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (svc *OrderService) recomputeTotal(ctx context.Context, tx *repo.GormRepo, order *models.Order) (int64, error) {
	items, err := tx.ListOrderItems(ctx, order.ID)
	if err != nil {
		return 0, err
	}
	var discount int64
	if order.Voucher != nil {
		discount = order.Voucher.Discount
	}
	total := ComputeTotal(items, discount)
	if err := tx.UpdateOrderTotal(ctx, order.ID, total); err != nil {
		return 0, err
	}
	return total, nil
}
