package postgres

import (
	"context"
	"errors"
	"fmt"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{DB: db}
}

func (r *CartRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	err := conn(ctx, r.DB).
		Preload("Product").
		Where("buyer_id = ?", buyerID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	return items, nil
}

func (r *CartRepository) FindItem(ctx context.Context, buyerID, productID uint) (domain.CartItem, error) {
	var item domain.CartItem
	err := conn(ctx, r.DB).Where("buyer_id = ? AND product_id = ?", buyerID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartItem{}, serrors.With(serrors.ErrNotFound, "cart item not found")
		}
		return domain.CartItem{}, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if err := conn(ctx, r.DB).Omit("Product").Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return serrors.With(serrors.ErrConflict, "product already in cart")
		}
		return fmt.Errorf("failed to create cart item: %w", err)
	}

	return nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, buyerID, productID uint, quantity int) error {
	result := conn(ctx, r.DB).Model(&domain.CartItem{}).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "cart item not found")
	}

	return nil
}

func (r *CartRepository) Remove(ctx context.Context, buyerID, productID uint) error {
	result := conn(ctx, r.DB).Where("buyer_id = ? AND product_id = ?", buyerID, productID).Delete(&domain.CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "cart item not found")
	}

	return nil
}

func (r *CartRepository) Clear(ctx context.Context, buyerID uint) error {
	if err := conn(ctx, r.DB).Where("buyer_id = ?", buyerID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
