package domain

import (
	"fmt"
	"time"
)

// Account is implemented by the role specific user records so that
// authentication can treat them uniformly.
type Account interface {
	AccountID() uint
	AccountRole() Role
	AccountName() string
	AccountEmail() string
	PasswordHash() string
	SetPasswordHash(hash string)
	CanLogin() bool
}

// AccountKey identifies an account across the three account tables.
func AccountKey(role Role, id uint) string {
	return fmt.Sprintf("%s:%d", role, id)
}

// CREATE TABLE buyers (
//     id          BIGSERIAL PRIMARY KEY,
//     full_name   TEXT NOT NULL,
//     email       TEXT NOT NULL UNIQUE,
//     password    TEXT NOT NULL,
//     phone       TEXT,
//     created_at  TIMESTAMPTZ,
//     updated_at  TIMESTAMPTZ
// );

type Buyer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"column:full_name;not null" json:"full_name"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Buyer) TableName() string { return "buyers" }

func (b *Buyer) AccountID() uint             { return b.ID }
func (b *Buyer) AccountRole() Role           { return RoleBuyer }
func (b *Buyer) AccountName() string         { return b.FullName }
func (b *Buyer) AccountEmail() string        { return b.Email }
func (b *Buyer) PasswordHash() string        { return b.Password }
func (b *Buyer) SetPasswordHash(hash string) { b.Password = hash }
func (b *Buyer) CanLogin() bool              { return true }

type Seller struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FullName         string    `gorm:"column:full_name;not null" json:"full_name"`
	Email            string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"column:password;not null" json:"-"`
	Phone            string    `gorm:"column:phone" json:"phone"`
	StoreName        string    `gorm:"column:store_name;not null" json:"store_name"`
	StoreDescription string    `gorm:"column:store_description;type:text" json:"store_description"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Seller) TableName() string { return "sellers" }

func (s *Seller) AccountID() uint             { return s.ID }
func (s *Seller) AccountRole() Role           { return RoleSeller }
func (s *Seller) AccountName() string         { return s.FullName }
func (s *Seller) AccountEmail() string        { return s.Email }
func (s *Seller) PasswordHash() string        { return s.Password }
func (s *Seller) SetPasswordHash(hash string) { s.Password = hash }
func (s *Seller) CanLogin() bool              { return true }

// DeliveryAgent is matched to orders by city. An agent takes part in the
// assignment pass only while both IsActive and IsAvailable are set.
type DeliveryAgent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FullName      string    `gorm:"column:full_name;not null" json:"full_name"`
	Email         string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"column:password;not null" json:"-"`
	Phone         string    `gorm:"column:phone" json:"phone"`
	City          string    `gorm:"column:city;index;not null" json:"city"`
	State         string    `gorm:"column:state" json:"state"`
	Pincode       string    `gorm:"column:pincode;index" json:"pincode"`
	VehicleType   string    `gorm:"column:vehicle_type" json:"vehicle_type"`
	IsActive      bool      `gorm:"column:is_active;not null" json:"is_active"`
	IsAvailable   bool      `gorm:"column:is_available;not null" json:"is_available"`
	TotalEarnings float64   `gorm:"column:total_earnings;type:numeric;not null;default:0" json:"total_earnings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (DeliveryAgent) TableName() string { return "delivery_agents" }

func (a *DeliveryAgent) AccountID() uint             { return a.ID }
func (a *DeliveryAgent) AccountRole() Role           { return RoleDeliveryAgent }
func (a *DeliveryAgent) AccountName() string         { return a.FullName }
func (a *DeliveryAgent) AccountEmail() string        { return a.Email }
func (a *DeliveryAgent) PasswordHash() string        { return a.Password }
func (a *DeliveryAgent) SetPasswordHash(hash string) { a.Password = hash }
func (a *DeliveryAgent) CanLogin() bool              { return a.IsActive }
