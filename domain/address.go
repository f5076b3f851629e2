package domain

import "time"

type Address struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BuyerID       uint      `gorm:"column:buyer_id;index;not null" json:"buyer_id"`
	Label         string    `gorm:"column:label" json:"label"`
	RecipientName string    `gorm:"column:recipient_name;not null" json:"recipient_name"`
	Phone         string    `gorm:"column:phone" json:"phone"`
	Line1         string    `gorm:"column:line1;not null" json:"line1"`
	Line2         string    `gorm:"column:line2" json:"line2"`
	City          string    `gorm:"column:city;not null" json:"city"`
	State         string    `gorm:"column:state" json:"state"`
	Pincode       string    `gorm:"column:pincode;not null" json:"pincode"`
	Country       string    `gorm:"column:country" json:"country"`
	IsDefault     bool      `gorm:"column:is_default;not null" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Address) TableName() string { return "addresses" }
