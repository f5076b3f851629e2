package postgres

import (
	"context"
	"errors"
	"fmt"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"gorm.io/gorm"
)

type AddressRepository struct {
	DB *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{DB: db}
}

func (r *AddressRepository) Create(ctx context.Context, address *domain.Address) error {
	if err := conn(ctx, r.DB).Create(address).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func (r *AddressRepository) FindByID(ctx context.Context, id uint) (domain.Address, error) {
	var address domain.Address
	err := conn(ctx, r.DB).First(&address, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Address{}, serrors.With(serrors.ErrNotFound, "address not found")
		}
		return domain.Address{}, fmt.Errorf("failed to find address: %w", err)
	}

	return address, nil
}

// ListByBuyer returns the default address first, then newest first.
func (r *AddressRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]domain.Address, error) {
	addresses := []domain.Address{}
	err := conn(ctx, r.DB).
		Where("buyer_id = ?", buyerID).
		Order("is_default DESC").Order("created_at DESC").Order("id DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	return addresses, nil
}

func (r *AddressRepository) CountByBuyer(ctx context.Context, buyerID uint) (int64, error) {
	var count int64
	if err := conn(ctx, r.DB).Model(&domain.Address{}).Where("buyer_id = ?", buyerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}

	return count, nil
}

func (r *AddressRepository) Update(ctx context.Context, address *domain.Address) error {
	result := conn(ctx, r.DB).Model(address).
		Select("label", "recipient_name", "phone", "line1", "line2", "city", "state", "pincode", "country", "is_default", "updated_at").
		Updates(address)
	if result.Error != nil {
		return fmt.Errorf("failed to update address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "address not found")
	}

	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.DB).Delete(&domain.Address{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "address not found")
	}

	return nil
}

// ClearDefault unsets the default flag on every address of the buyer.
func (r *AddressRepository) ClearDefault(ctx context.Context, buyerID uint) error {
	err := conn(ctx, r.DB).Model(&domain.Address{}).
		Where("buyer_id = ? AND is_default = ?", buyerID, true).
		Update("is_default", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}

	return nil
}

// PromoteLatest makes the most recent remaining address the default.
func (r *AddressRepository) PromoteLatest(ctx context.Context, buyerID uint) error {
	var latest domain.Address
	err := conn(ctx, r.DB).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Order("id DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find latest address: %w", err)
	}

	if err := conn(ctx, r.DB).Model(&latest).Update("is_default", true).Error; err != nil {
		return fmt.Errorf("failed to promote address: %w", err)
	}

	return nil
}
