package domain

import "time"

// SellerOrderLine is one of a seller's order items joined with its order.
type SellerOrderLine struct {
	OrderID     uint
	ProductID   uint
	ProductName string
	UnitPrice   float64
	Quantity    int
	Status      OrderStatus
	CreatedAt   time.Time
}

type ProductSales struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int     `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
}

type DailyRevenue struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type SellerAnalytics struct {
	SellerID          uint                    `json:"seller_id"`
	From              time.Time               `json:"from"`
	To                time.Time               `json:"to"`
	TotalRevenue      float64                 `json:"total_revenue"`
	TotalOrders       int                     `json:"total_orders"`
	UnitsSold         int                     `json:"units_sold"`
	AverageOrderValue float64                 `json:"average_order_value"`
	RevenueByStatus   map[OrderStatus]float64 `json:"revenue_by_status"`
	TopProducts       []ProductSales          `json:"top_products"`
	DailyRevenue      []DailyRevenue          `json:"daily_revenue"`
	LowStockProducts  []Product               `json:"low_stock_products"`
}
