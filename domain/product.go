package domain

import (
	"time"

	"gorm.io/gorm"
)

// CREATE TABLE products (
//     id           BIGSERIAL PRIMARY KEY,
//     seller_id    BIGINT NOT NULL REFERENCES sellers(id),
//     category_id  BIGINT REFERENCES categories(id),
//     name         TEXT NOT NULL,
//     description  TEXT,
//     price        NUMERIC NOT NULL,
//     stock        INTEGER NOT NULL DEFAULT 0,
//     image_url    TEXT,
//     created_at   TIMESTAMPTZ,
//     updated_at   TIMESTAMPTZ,
//     deleted_at   TIMESTAMPTZ
// );

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SellerID    uint           `gorm:"column:seller_id;index;not null" json:"seller_id"`
	CategoryID  *uint          `gorm:"column:category_id;index" json:"category_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Price       float64        `gorm:"column:price;type:numeric;not null" json:"price"`
	Stock       int            `gorm:"column:stock;not null;default:0" json:"stock"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter narrows the public catalog listing.
type ProductFilter struct {
	CategoryID *uint
	SellerID   *uint
	Query      string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
	Page       int
	Size       int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging to sane bounds.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
}

func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Size
}

type ProductPage struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}
