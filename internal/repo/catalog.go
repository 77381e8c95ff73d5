package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductsByIDs resolves a set of variant ids in one query. Callers
// compare len(result) against the requested set to detect missing ids.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Save(cat).Error
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type BestSeller struct {
	ProductID uint  `json:"product_id"`
	Sold      int64 `json:"sold"`
}

// BestSellers ranks variants by total quantity across paid orders.
func (r *GormRepo) BestSellers(ctx context.Context, offset, limit int) ([]BestSeller, int64, error) {
	base := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", models.StatusPaid)

	var total int64
	if err := base.Distinct("order_items.product_id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []BestSeller
	err := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_items.product_id AS product_id, SUM(order_items.quantity) AS sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", models.StatusPaid).
		Group("order_items.product_id").
		Order("sold DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type DashboardSummary struct {
	Users    int64 `json:"users"`
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
	Revenue  int64 `json:"revenue"`
}

func (r *GormRepo) Summary(ctx context.Context) (*DashboardSummary, error) {
	var s DashboardSummary
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&s.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&s.Products).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&s.Orders).Error; err != nil {
		return nil, err
	}
	var revenue *int64
	err := db.Model(&models.Order{}).
		Where("status = ?", models.StatusPaid).
		Select("SUM(total)").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		s.Revenue = *revenue
	}
	return &s, nil
}

type StatusCount struct {
	Status models.Status `json:"status"`
	Count  int64         `json:"count"`
}

func (r *GormRepo) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type RevenueDay struct {
	Day     string `json:"day"`
	Revenue int64  `json:"revenue"`
}

// RevenueByDate sums paid-order totals per calendar day over [from, to].
func (r *GormRepo) RevenueByDate(ctx context.Context, from, to time.Time) ([]RevenueDay, error) {
	var rows []RevenueDay
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("date(created_at) AS day, SUM(total) AS revenue").
		Where("status = ? AND created_at >= ? AND created_at <= ?", models.StatusPaid, from, to).
		Group("day").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
