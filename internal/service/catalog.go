package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/trananhduc/fashion_shop/internal/es"
	"github.com/trananhduc/fashion_shop/internal/logging"
	"github.com/trananhduc/fashion_shop/internal/models"
	"github.com/trananhduc/fashion_shop/internal/repo"
	"github.com/trananhduc/fashion_shop/internal/transport"
)

// CatalogService owns product-variant and category CRUD. Product writes
// keep the search index in sync best-effort: an indexing failure is logged
// and never fails the request.
type CatalogService struct {
	Repo *repo.GormRepo
	ES   *elasticsearch.Client
}

func NewCatalogService(r *repo.GormRepo, esClient *elasticsearch.Client) *CatalogService {
	return &CatalogService{Repo: r, ES: esClient}
}

func (svc *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := svc.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (svc *CatalogService) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	return svc.Repo.ListProducts(ctx, offset, limit)
}

func (svc *CatalogService) CreateProduct(ctx context.Context, p models.Principal, req transport.CreateProductRequest) (*models.Product, error) {
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price < 0 || req.Quantity < 0 {
		return nil, fmt.Errorf("%w: price and quantity must be >= 0", ErrValidation)
	}
	if _, err := svc.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrValidation, req.CategoryID)
		}
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Size:        req.Size,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	}
	if err := svc.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	svc.index(ctx, product)
	return product, nil
}

func (svc *CatalogService) UpdateProduct(ctx context.Context, p models.Principal, id uint, req transport.CreateProductRequest) (*models.Product, error) {
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	product, err := svc.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.Price < 0 || req.Quantity < 0 {
		return nil, fmt.Errorf("%w: price and quantity must be >= 0", ErrValidation)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Image = req.Image
	product.Size = req.Size
	product.Price = req.Price
	product.Quantity = req.Quantity
	if req.CategoryID != 0 {
		product.CategoryID = req.CategoryID
	}
	if err := svc.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	svc.index(ctx, product)
	return product, nil
}

func (svc *CatalogService) DeleteProduct(ctx context.Context, p models.Principal, id uint) error {
	if !p.IsStaff() {
		return ErrForbidden
	}
	if err := svc.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if svc.ES != nil {
		if err := es.DeleteProduct(ctx, svc.ES, es.ProductIndex, id); err != nil {
			logging.FromContext(ctx).Warn("es_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (svc *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return svc.Repo.ListCategories(ctx)
}

func (svc *CatalogService) CreateCategory(ctx context.Context, p models.Principal, name string) (*models.Category, error) {
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	cat := &models.Category{Name: name}
	if err := svc.Repo.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		return nil, err
	}
	return cat, nil
}

func (svc *CatalogService) UpdateCategory(ctx context.Context, p models.Principal, id uint, name string) (*models.Category, error) {
	if !p.IsStaff() {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	cat, err := svc.Repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cat.Name = name
	if err := svc.Repo.SaveCategory(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		return nil, err
	}
	return cat, nil
}

func (svc *CatalogService) DeleteCategory(ctx context.Context, p models.Principal, id uint) error {
	if !p.IsStaff() {
		return ErrForbidden
	}
	if err := svc.Repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (svc *CatalogService) BestSellers(ctx context.Context, offset, limit int) ([]repo.BestSeller, int64, error) {
	return svc.Repo.BestSellers(ctx, offset, limit)
}

func (svc *CatalogService) Summary(ctx context.Context, p models.Principal) (*repo.DashboardSummary, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.Repo.Summary(ctx)
}

func (svc *CatalogService) OrdersByStatus(ctx context.Context, p models.Principal) ([]repo.StatusCount, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.Repo.OrdersByStatus(ctx)
}

func (svc *CatalogService) RevenueByDate(ctx context.Context, p models.Principal, from, to time.Time) ([]repo.RevenueDay, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to is before from", ErrValidation)
	}
	return svc.Repo.RevenueByDate(ctx, from, to)
}

func (svc *CatalogService) index(ctx context.Context, product *models.Product) {
	if svc.ES == nil {
		return
	}
	if err := es.IndexProduct(ctx, svc.ES, es.ProductIndex, product); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "product_id", product.ID, "error", err)
	}
}
