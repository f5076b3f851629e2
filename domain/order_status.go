package domain

import "fmt"

// OrderStatus is the linear order lifecycle. An unassigned PENDING or
// PROCESSING order moves to ASSIGNED when a delivery agent takes it;
// DELIVERED and CANCELLED are terminal.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusAssigned   OrderStatus = "ASSIGNED"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusAssigned, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusAssigned, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusAssigned:   {OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ActiveDeliveryStatuses count against an agent's capacity.
var ActiveDeliveryStatuses = []OrderStatus{OrderStatusAssigned, OrderStatusShipped}

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusAssigned,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// AssignableStatuses are the statuses an unassigned order can be handed to
// an agent from, read off the transition table.
var AssignableStatuses = statusesLeadingTo(OrderStatusAssigned)

func statusesLeadingTo(next OrderStatus) []OrderStatus {
	var out []OrderStatus
	for _, s := range orderStatuses {
		if s.CanTransitionTo(next) {
			out = append(out, s)
		}
	}
	return out
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
