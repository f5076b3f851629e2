package postgres

import (
	"context"
	"errors"
	"fmt"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"gorm.io/gorm"
)

type WishlistRepository struct {
	DB *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{DB: db}
}

func (r *WishlistRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]domain.WishlistItem, error) {
	items := []domain.WishlistItem{}
	err := conn(ctx, r.DB).
		Preload("Product").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}

	return items, nil
}

func (r *WishlistRepository) FindItem(ctx context.Context, buyerID, productID uint) (domain.WishlistItem, error) {
	var item domain.WishlistItem
	err := conn(ctx, r.DB).Where("buyer_id = ? AND product_id = ?", buyerID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WishlistItem{}, serrors.With(serrors.ErrNotFound, "wishlist item not found")
		}
		return domain.WishlistItem{}, fmt.Errorf("failed to find wishlist item: %w", err)
	}

	return item, nil
}

func (r *WishlistRepository) Create(ctx context.Context, item *domain.WishlistItem) error {
	if err := conn(ctx, r.DB).Omit("Product").Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return serrors.With(serrors.ErrConflict, "product already in wishlist")
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, buyerID, productID uint) error {
	result := conn(ctx, r.DB).Where("buyer_id = ? AND product_id = ?", buyerID, productID).Delete(&domain.WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "wishlist item not found")
	}

	return nil
}
