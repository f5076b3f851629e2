package domain

import (
	"math"
	"strings"
	"time"
)

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderNumber     string      `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	BuyerID         uint        `gorm:"column:buyer_id;index;not null" json:"buyer_id"`
	AddressID       uint        `gorm:"column:address_id;not null" json:"address_id"`
	ShippingName    string      `gorm:"column:shipping_name" json:"shipping_name"`
	ShippingPhone   string      `gorm:"column:shipping_phone" json:"shipping_phone"`
	ShippingLine1   string      `gorm:"column:shipping_line1" json:"shipping_line1"`
	ShippingLine2   string      `gorm:"column:shipping_line2" json:"shipping_line2"`
	ShippingCity    string      `gorm:"column:shipping_city;index" json:"shipping_city"`
	ShippingState   string      `gorm:"column:shipping_state" json:"shipping_state"`
	ShippingPincode string      `gorm:"column:shipping_pincode" json:"shipping_pincode"`
	Status          OrderStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	Subtotal        float64     `gorm:"column:subtotal;type:numeric;not null" json:"subtotal"`
	ShippingFee     float64     `gorm:"column:shipping_fee;type:numeric;not null" json:"shipping_fee"`
	TotalAmount     float64     `gorm:"column:total_amount;type:numeric;not null" json:"total_amount"`
	DeliveryAgentID *uint       `gorm:"column:delivery_agent_id;index" json:"delivery_agent_id"`
	DeliveryFee     float64     `gorm:"column:delivery_fee;type:numeric;not null;default:0" json:"delivery_fee"`
	AgentEarning    float64     `gorm:"column:agent_earning;type:numeric;not null;default:0" json:"agent_earning"`
	AssignedAt      *time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	ShippedAt       *time.Time  `gorm:"column:shipped_at" json:"shipped_at"`
	DeliveredAt     *time.Time  `gorm:"column:delivered_at" json:"delivered_at"`
	CancelledAt     *time.Time  `gorm:"column:cancelled_at" json:"cancelled_at"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o Order) HasSeller(sellerID uint) bool {
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			return true
		}
	}
	return false
}

func (o Order) IsAssignedTo(agentID uint) bool {
	return o.DeliveryAgentID != nil && *o.DeliveryAgentID == agentID
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID   uint    `gorm:"column:product_id;index;not null" json:"product_id"`
	SellerID    uint    `gorm:"column:seller_id;index;not null" json:"seller_id"`
	ProductName string  `gorm:"column:product_name;not null" json:"product_name"`
	UnitPrice   float64 `gorm:"column:unit_price;type:numeric;not null" json:"unit_price"`
	Quantity    int     `gorm:"column:quantity;not null" json:"quantity"`
	LineTotal   float64 `gorm:"column:line_total;type:numeric;not null" json:"line_total"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderFilter is used by the listing endpoints of every role.
type OrderFilter struct {
	BuyerID  *uint
	SellerID *uint
	AgentID  *uint
	Statuses []OrderStatus
}

// RoundMoney rounds to two decimals, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeLocation is the comparison key for city and pincode matching.
func NormalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
