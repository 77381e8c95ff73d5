package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/config"
	"github.com/trananhduc/fashion_shop/internal/models"
	"github.com/trananhduc/fashion_shop/internal/repo"
	"github.com/trananhduc/fashion_shop/internal/transport"
)

func initTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return repo.New(db)
}

func seedProduct(t *testing.T, r *repo.GormRepo, price, quantity int64) models.Product {
	t.Helper()
	p := models.Product{Name: "shirt", Price: price, Quantity: quantity, CategoryID: 1}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func seedVoucher(t *testing.T, r *repo.GormRepo, code string, discount, quantity int64, active bool) models.Voucher {
	t.Helper()
	v := models.Voucher{Code: code, Discount: discount, Quantity: quantity, IsActive: active}
	require.NoError(t, r.DB.Create(&v).Error)
	return v
}

var (
	owner = models.Principal{UserID: 1, Role: models.RoleUser}
	other = models.Principal{UserID: 2, Role: models.RoleUser}
	staff = models.Principal{UserID: 3, Role: models.RoleStaff}
	admin = models.Principal{UserID: 4, Role: models.RoleAdmin}
)

func TestOrderService_CreateOrder(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	b := seedProduct(t, r, 50, 10)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Name:    "Duc",
		Phone:   "0123",
		Address: "HCMC",
		Items: []transport.CreateOrderItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250), order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Nil(t, order.VoucherID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(100), order.Items[0].UnitPrice)

	// stock untouched by creation
	got, err := r.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)
}

func TestOrderService_CreateOrder_EmptyOrder(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)

	_, err := svc.CreateOrder(context.Background(), owner, transport.CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderService_CreateOrder_VariantNotFound(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)

	_, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: a.ID, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrVariantNotFound)

	// whole request rejected, no partial order
	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_CreateOrder_WithVoucher(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	b := seedProduct(t, r, 50, 10)
	v := seedVoucher(t, r, "SALE80", 80, 5, true)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		VoucherCode: "SALE80",
		Items: []transport.CreateOrderItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(170), order.Total)
	require.NotNil(t, order.VoucherID)
	assert.Equal(t, v.ID, *order.VoucherID)

	// exactly one use consumed
	stored, err := r.GetVoucher(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.Quantity)
}

func TestOrderService_CreateOrder_VoucherFloorsAtZero(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)

	a := seedProduct(t, r, 100, 10)
	b := seedProduct(t, r, 50, 10)
	seedVoucher(t, r, "BIG", 500, 1, true)

	order, err := svc.CreateOrder(context.Background(), owner, transport.CreateOrderRequest{
		VoucherCode: "BIG",
		Items: []transport.CreateOrderItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), order.Total)
}

func TestOrderService_CreateOrder_VoucherInvalid(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	seedVoucher(t, r, "USED", 10, 0, true)
	seedVoucher(t, r, "OFF", 10, 5, false)

	req := func(code string) transport.CreateOrderRequest {
		return transport.CreateOrderRequest{
			VoucherCode: code,
			Items:       []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 1}},
		}
	}

	for _, code := range []string{"USED", "OFF", "NOPE"} {
		_, err := svc.CreateOrder(ctx, owner, req(code))
		assert.ErrorIs(t, err, ErrVoucherInvalid, "code %s", code)
	}

	// failed redemption left no order behind
	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_SetStatus_PaidDecrementsStock(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 5)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, staff, order.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)

	got, err := r.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestOrderService_SetStatus_InsufficientStockAborts(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 5)
	b := seedProduct(t, r, 50, 1)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, staff, order.ID, "paid")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// earlier decrement in the same request rolled back
	gotA, err := r.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotA.Quantity)

	gotB, err := r.GetProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gotB.Quantity)

	stored, err := svc.GetOrder(ctx, staff, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestOrderService_SetStatus_CancelRestoresStockOnce(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 5)
	b := seedProduct(t, r, 50, 5)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, staff, order.ID, "paid")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, staff, order.ID, "cancelled")
	require.NoError(t, err)

	gotA, err := r.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotA.Quantity)

	gotB, err := r.GetProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotB.Quantity)

	// cancelled is terminal, no second restore
	_, err = svc.SetStatus(ctx, staff, order.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderService_SetStatus_TransitionTableIsTotal(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 100)

	allowed := map[models.Status]map[string]bool{
		models.StatusPending:   {"paid": true},
		models.StatusPaid:      {"cancelled": true},
		models.StatusCancelled: {},
	}
	requested := []string{"pending", "paid", "cancelled", "shipped", ""}

	for from := range allowed {
		for _, to := range requested {
			order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
				Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 1}},
			})
			require.NoError(t, err)
			require.NoError(t, r.DB.Model(&models.Order{}).
				Where("id = ?", order.ID).
				UpdateColumn("status", from).Error)

			_, err = svc.SetStatus(ctx, staff, order.ID, to)
			if allowed[from][to] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatus, "%s -> %s", from, to)
			}
		}
	}
}

func TestOrderService_SetStatus_RequiresStaff(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, owner, order.ID, "paid")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetStatus(ctx, admin, order.ID, "paid")
	assert.NoError(t, err)
}

func TestOrderService_ItemMutationPolicy(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	b := seedProduct(t, r, 50, 10)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// another user never mutates someone else's order
	_, _, err = svc.AddItem(ctx, other, order.ID, transport.AddItemRequest{ProductID: b.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	// owner can mutate while pending
	_, newTotal, err := svc.AddItem(ctx, owner, order.ID, transport.AddItemRequest{ProductID: b.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(350), newTotal)

	_, err = svc.SetStatus(ctx, staff, order.ID, "paid")
	require.NoError(t, err)

	items, err := r.ListOrderItems(ctx, order.ID)
	require.NoError(t, err)

	// owner of a paid order is locked out, staff is not
	_, err = svc.RemoveItem(ctx, owner, order.ID, items[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)

	newTotal, err = svc.RemoveItem(ctx, staff, order.ID, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), newTotal)
}

func TestOrderService_UpdateItem_RecomputesTotal(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	b := seedProduct(t, r, 30, 10)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(200), order.Total)

	item := order.Items[0]

	qty := int64(3)
	updated, newTotal, err := svc.UpdateItem(ctx, owner, order.ID, item.ID, transport.UpdateItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Quantity)
	assert.Equal(t, int64(300), newTotal)

	// switching the variant recaptures that variant's price
	pid := b.ID
	updated, newTotal, err = svc.UpdateItem(ctx, owner, order.ID, item.ID, transport.UpdateItemRequest{ProductID: &pid})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ProductID)
	assert.Equal(t, int64(30), updated.UnitPrice)
	assert.Equal(t, int64(90), newTotal)

	missing := uint(999)
	_, _, err = svc.UpdateItem(ctx, owner, order.ID, item.ID, transport.UpdateItemRequest{ProductID: &missing})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestOrderService_UpdateItem_VoucherDiscountKept(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	seedVoucher(t, r, "KEEP", 80, 5, true)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		VoucherCode: "KEEP",
		Items:       []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(120), order.Total)

	qty := int64(1)
	_, newTotal, err := svc.UpdateItem(ctx, owner, order.ID, order.Items[0].ID, transport.UpdateItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(20), newTotal)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	err = svc.DeleteOrder(ctx, other, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeleteOrder(ctx, owner, order.ID))

	// items cascade with the order
	var itemCount int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	err = svc.DeleteOrder(ctx, owner, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_DeleteOrder_OwnerLockedOutAfterPaid(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, staff, order.ID, "paid")
	require.NoError(t, err)

	err = svc.DeleteOrder(ctx, owner, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeleteOrder(ctx, admin, order.ID))
}

func TestOrderService_ListOrders(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	for _, p := range []models.Principal{owner, other} {
		_, err := svc.CreateOrder(ctx, p, transport.CreateOrderRequest{
			Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	mine, err := svc.ListMyOrders(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListAllOrders(ctx, owner)
	assert.ErrorIs(t, err, ErrForbidden)

	all, err := svc.ListAllOrders(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// A second pending->paid transition that read the order before the first one
// committed must fail the guarded status write and roll back its stock
// decrement, leaving exactly one decrement applied.
func TestOrderService_SetStatus_StaleTransitionRejected(t *testing.T) {
	r := initTestRepo(t)
	svc := NewOrderService(r)
	ctx := context.Background()

	a := seedProduct(t, r, 100, 10)
	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: a.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, staff, order.ID, "paid")
	require.NoError(t, err)

	// replay what the loser of the race does after its stale read of
	// "pending": decrement stock, then attempt the guarded write
	err = r.WithTx(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.DecrementStock(ctx, a.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = tx.UpdateOrderStatus(ctx, order.ID, models.StatusPending, models.StatusPaid)
		require.NoError(t, err)
		if !ok {
			return ErrConflict
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrConflict)

	var stock models.Product
	require.NoError(t, r.DB.First(&stock, a.ID).Error)
	assert.Equal(t, int64(8), stock.Quantity)
}
