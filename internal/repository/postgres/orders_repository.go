package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// CreateOrder inserts the order together with its items.
func (r *OrdersRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := conn(ctx, r.DB).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrdersRepository) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	var order domain.Order
	err := conn(ctx, r.DB).Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, serrors.With(serrors.ErrNotFound, "order not found")
		}
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *OrdersRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	q := conn(ctx, r.DB).Preload("Items")

	if filter.BuyerID != nil {
		q = q.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.AgentID != nil {
		q = q.Where("delivery_agent_id = ?", *filter.AgentID)
	}
	if filter.SellerID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.seller_id = ?)", *filter.SellerID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}

	orders := []domain.Order{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// TransitionStatus moves an order from one status to another. It reports
// false when the order is no longer in the expected status.
func (r *OrdersRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.OrderStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case domain.OrderStatusShipped:
		updates["shipped_at"] = at
	case domain.OrderStatusDelivered:
		updates["delivered_at"] = at
	case domain.OrderStatusCancelled:
		updates["cancelled_at"] = at
	}

	result := conn(ctx, r.DB).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update order status: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// ListUnassigned returns assignable orders without an agent, oldest first.
func (r *OrdersRepository) ListUnassigned(ctx context.Context, limit int) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := conn(ctx, r.DB).
		Where("delivery_agent_id IS NULL AND status IN ?", domain.AssignableStatuses).
		Order("created_at").Order("id").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned orders: %w", err)
	}

	return orders, nil
}

// AssignAgent writes an assignment only if the order is still unassigned
// and assignable. It reports false when another writer got there first.
func (r *OrdersRepository) AssignAgent(ctx context.Context, orderID uint, a domain.Assignment, at time.Time) (bool, error) {
	result := conn(ctx, r.DB).Model(&domain.Order{}).
		Where("id = ? AND delivery_agent_id IS NULL AND status IN ?", orderID, domain.AssignableStatuses).
		Updates(map[string]interface{}{
			"delivery_agent_id": a.AgentID,
			"status":            domain.OrderStatusAssigned,
			"assigned_at":       at,
			"delivery_fee":      a.DeliveryFee,
			"agent_earning":     a.AgentEarning,
			"updated_at":        at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to assign order: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

type agentLoad struct {
	DeliveryAgentID uint
	Active          int
}

// ActiveDeliveryCounts returns the number of ASSIGNED or SHIPPED orders per agent.
func (r *OrdersRepository) ActiveDeliveryCounts(ctx context.Context) (map[uint]int, error) {
	var rows []agentLoad
	err := conn(ctx, r.DB).Model(&domain.Order{}).
		Select("delivery_agent_id, COUNT(*) AS active").
		Where("delivery_agent_id IS NOT NULL AND status IN ?", domain.ActiveDeliveryStatuses).
		Group("delivery_agent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active deliveries: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.DeliveryAgentID] = row.Active
	}

	return counts, nil
}

func (r *OrdersRepository) CountActiveForAgent(ctx context.Context, agentID uint) (int, error) {
	var count int64
	err := conn(ctx, r.DB).Model(&domain.Order{}).
		Where("delivery_agent_id = ? AND status IN ?", agentID, domain.ActiveDeliveryStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active deliveries: %w", err)
	}

	return int(count), nil
}

// ListDeliveredByAgent returns orders the agent delivered in [from, to).
func (r *OrdersRepository) ListDeliveredByAgent(ctx context.Context, agentID uint, from, to time.Time) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := conn(ctx, r.DB).
		Where("delivery_agent_id = ? AND status = ?", agentID, domain.OrderStatusDelivered).
		Where("delivered_at >= ? AND delivered_at < ?", from, to).
		Order("delivered_at").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list delivered orders: %w", err)
	}

	return orders, nil
}

// SellerLines returns the seller's order lines of orders created in [from, to).
func (r *OrdersRepository) SellerLines(ctx context.Context, sellerID uint, from, to time.Time) ([]domain.SellerOrderLine, error) {
	lines := []domain.SellerOrderLine{}
	err := conn(ctx, r.DB).Table("order_items AS oi").
		Select("oi.order_id, oi.product_id, oi.product_name, oi.unit_price, oi.quantity, o.status, o.created_at").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("oi.seller_id = ?", sellerID).
		Where("o.created_at >= ? AND o.created_at < ?", from, to).
		Order("o.created_at").Order("oi.id").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list seller order lines: %w", err)
	}

	return lines, nil
}
