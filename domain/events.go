package domain

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderAssigned      = "order.assigned"
)

type OrderEvent struct {
	Type            string      `json:"type"`
	OrderID         uint        `json:"order_id"`
	OrderNumber     string      `json:"order_number"`
	BuyerID         uint        `json:"buyer_id"`
	Status          OrderStatus `json:"status"`
	PreviousStatus  OrderStatus `json:"previous_status,omitempty"`
	DeliveryAgentID *uint       `json:"delivery_agent_id,omitempty"`
	TotalAmount     float64     `json:"total_amount"`
	OccurredAt      time.Time   `json:"occurred_at"`
}

func NewOrderEvent(eventType string, order Order, previous OrderStatus) OrderEvent {
	return OrderEvent{
		Type:            eventType,
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		Status:          order.Status,
		PreviousStatus:  previous,
		DeliveryAgentID: order.DeliveryAgentID,
		TotalAmount:     order.TotalAmount,
		OccurredAt:      time.Now().UTC(),
	}
}
