package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := conn(ctx, r.DB).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, serrors.With(serrors.ErrNotFound, "product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindByIDs keeps the order of ids and skips ids that no longer exist.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	var found []domain.Product
	if err := conn(ctx, r.DB).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	byID := make(map[uint]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	products := make([]domain.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}

	return products, nil
}

func (r *ProductRepository) applyFilter(q *gorm.DB, filter domain.ProductFilter) *gorm.DB {
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SellerID != nil {
		q = q.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStock {
		q = q.Where("stock > 0")
	}
	if query := strings.TrimSpace(filter.Query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	return q
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProductPage{}, fmt.Errorf("context error: %w", err)
	}

	filter.Normalize()

	var total int64
	if err := r.applyFilter(conn(ctx, r.DB).Model(&domain.Product{}), filter).Count(&total).Error; err != nil {
		return domain.ProductPage{}, fmt.Errorf("failed to count products: %w", err)
	}

	products := []domain.Product{}
	err := r.applyFilter(conn(ctx, r.DB), filter).
		Order("created_at DESC").Order("id DESC").
		Limit(filter.Size).Offset(filter.Offset()).
		Find(&products).Error
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("failed to find products: %w", err)
	}

	return domain.ProductPage{Products: products, Total: total, Page: filter.Page, Size: filter.Size}, nil
}

// FindAll is used to rebuild the search index.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := conn(ctx, r.DB).Order("id").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindLowStock(ctx context.Context, sellerID uint, threshold int) ([]domain.Product, error) {
	products := []domain.Product{}
	err := conn(ctx, r.DB).
		Where("seller_id = ? AND stock <= ?", sellerID, threshold).
		Order("stock").Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := conn(ctx, r.DB).Model(product).
		Select("category_id", "name", "description", "price", "stock", "image_url", "updated_at").
		Updates(product)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "product not found")
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := conn(ctx, r.DB).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "product not found or already deleted")
	}

	return nil
}

// DecrementStock reserves qty units. It returns false when stock is short.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	result := conn(ctx, r.DB).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// IncrementStock returns units to stock, including for soft deleted products.
func (r *ProductRepository) IncrementStock(ctx context.Context, id uint, qty int) error {
	result := conn(ctx, r.DB).Unscoped().Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to increment stock: %w", result.Error)
	}

	return nil
}
