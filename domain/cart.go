package domain

import "time"

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BuyerID   uint      `gorm:"column:buyer_id;not null;uniqueIndex:idx_cart_buyer_product" json:"buyer_id"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_cart_buyer_product" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_items" }

// LineTotal is zero when the product is not loaded.
func (c CartItem) LineTotal() float64 {
	if c.Product == nil {
		return 0
	}
	return c.Product.Price * float64(c.Quantity)
}

type Cart struct {
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  float64    `json:"subtotal"`
}

func NewCart(items []CartItem) Cart {
	cart := Cart{Items: items}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	for _, it := range items {
		cart.ItemCount += it.Quantity
		cart.Subtotal += it.LineTotal()
	}
	cart.Subtotal = RoundMoney(cart.Subtotal)
	return cart
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BuyerID   uint      `gorm:"column:buyer_id;not null;uniqueIndex:idx_wishlist_buyer_product" json:"buyer_id"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_wishlist_buyer_product" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }
