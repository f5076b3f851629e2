package postgres

import (
	"context"
	"errors"
	"fmt"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"gorm.io/gorm"
)

// DeliveryRepository covers the delivery agent queries used by assignment
// and earnings. Authentication goes through AccountRepository.
type DeliveryRepository struct {
	DB *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

func (r *DeliveryRepository) FindAgent(ctx context.Context, id uint) (domain.DeliveryAgent, error) {
	var agent domain.DeliveryAgent
	err := conn(ctx, r.DB).First(&agent, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DeliveryAgent{}, serrors.With(serrors.ErrNotFound, "delivery agent not found")
		}
		return domain.DeliveryAgent{}, fmt.Errorf("failed to find delivery agent: %w", err)
	}

	return agent, nil
}

func (r *DeliveryRepository) ListAgents(ctx context.Context) ([]domain.DeliveryAgent, error) {
	agents := []domain.DeliveryAgent{}
	if err := conn(ctx, r.DB).Order("id").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("failed to list delivery agents: %w", err)
	}

	return agents, nil
}

// ListAvailableAgents returns agents that may take new orders, in
// registration order.
func (r *DeliveryRepository) ListAvailableAgents(ctx context.Context) ([]domain.DeliveryAgent, error) {
	agents := []domain.DeliveryAgent{}
	err := conn(ctx, r.DB).
		Where("is_active = ? AND is_available = ?", true, true).
		Order("created_at").Order("id").
		Find(&agents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available agents: %w", err)
	}

	return agents, nil
}

func (r *DeliveryRepository) SetAvailability(ctx context.Context, agentID uint, available bool) error {
	result := conn(ctx, r.DB).Model(&domain.DeliveryAgent{}).
		Where("id = ?", agentID).
		Update("is_available", available)
	if result.Error != nil {
		return fmt.Errorf("failed to update availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "delivery agent not found")
	}

	return nil
}

func (r *DeliveryRepository) SetActive(ctx context.Context, agentID uint, active bool) error {
	result := conn(ctx, r.DB).Model(&domain.DeliveryAgent{}).
		Where("id = ?", agentID).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update agent status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "delivery agent not found")
	}

	return nil
}

func (r *DeliveryRepository) AddEarnings(ctx context.Context, agentID uint, amount float64) error {
	result := conn(ctx, r.DB).Model(&domain.DeliveryAgent{}).
		Where("id = ?", agentID).
		UpdateColumn("total_earnings", gorm.Expr("total_earnings + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit earnings: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return serrors.With(serrors.ErrNotFound, "delivery agent not found")
	}

	return nil
}
