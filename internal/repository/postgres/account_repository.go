package postgres

import (
	"context"
	"errors"
	"fmt"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"gorm.io/gorm"
)

// AccountRepository stores one of the role specific account tables.
type AccountRepository struct {
	DB         *gorm.DB
	role       domain.Role
	newAccount func() domain.Account
}

func NewBuyerRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{DB: db, role: domain.RoleBuyer, newAccount: func() domain.Account { return &domain.Buyer{} }}
}

func NewSellerRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{DB: db, role: domain.RoleSeller, newAccount: func() domain.Account { return &domain.Seller{} }}
}

func NewDeliveryAgentRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{DB: db, role: domain.RoleDeliveryAgent, newAccount: func() domain.Account { return &domain.DeliveryAgent{} }}
}

func (r *AccountRepository) Role() domain.Role {
	return r.role
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	if err := conn(ctx, r.DB).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return serrors.With(serrors.ErrConflict, "email already registered")
		}
		return fmt.Errorf("failed to create %s: %w", r.role, err)
	}

	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (domain.Account, error) {
	account := r.newAccount()

	err := conn(ctx, r.DB).First(account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serrors.With(serrors.ErrNotFound, "%s not found", r.role)
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.role, err)
	}

	return account, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	account := r.newAccount()

	err := conn(ctx, r.DB).Where("email = ?", email).First(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serrors.With(serrors.ErrNotFound, "%s not found", r.role)
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.role, err)
	}

	return account, nil
}

// Update saves every column of the record.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	result := conn(ctx, r.DB).Save(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return serrors.With(serrors.ErrConflict, "email already registered")
		}
		return fmt.Errorf("failed to update %s: %w", r.role, result.Error)
	}

	return nil
}
