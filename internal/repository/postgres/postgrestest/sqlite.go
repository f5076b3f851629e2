// Package postgrestest opens throwaway databases for repository and service tests.
package postgrestest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"myMarketplace/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in creation order.
func Models() []interface{} {
	return []interface{}{
		&domain.Buyer{},
		&domain.Seller{},
		&domain.DeliveryAgent{},
		&domain.Category{},
		&domain.Product{},
		&domain.Address{},
		&domain.CartItem{},
		&domain.WishlistItem{},
		&domain.Order{},
		&domain.OrderItem{},
	}
}

var dbSeq atomic.Int64

// NewSQLiteDB returns a migrated in-memory database private to the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", sanitize(t.Name()), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(Models()...))

	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func CreateBuyer(t testing.TB, db *gorm.DB, email string) domain.Buyer {
	t.Helper()
	b := domain.Buyer{FullName: "Buyer " + email, Email: email, Password: "hash"}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func CreateSeller(t testing.TB, db *gorm.DB, email string) domain.Seller {
	t.Helper()
	s := domain.Seller{FullName: "Seller " + email, Email: email, Password: "hash", StoreName: "Store " + email}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func CreateAgent(t testing.TB, db *gorm.DB, email, city, pincode string, createdAt time.Time) domain.DeliveryAgent {
	t.Helper()
	a := domain.DeliveryAgent{
		FullName:    "Agent " + email,
		Email:       email,
		Password:    "hash",
		City:        city,
		Pincode:     pincode,
		IsActive:    true,
		IsAvailable: true,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func CreateProduct(t testing.TB, db *gorm.DB, sellerID uint, name string, price float64, stock int) domain.Product {
	t.Helper()
	p := domain.Product{SellerID: sellerID, Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func CreateAddress(t testing.TB, db *gorm.DB, buyerID uint, city, pincode string) domain.Address {
	t.Helper()
	a := domain.Address{BuyerID: buyerID, RecipientName: "Recipient", Line1: "1 Main St", City: city, Pincode: pincode, IsDefault: true}
	require.NoError(t, db.Create(&a).Error)
	return a
}

// CreateOrder inserts an order with a single line for the given product.
func CreateOrder(t testing.TB, db *gorm.DB, buyerID uint, product domain.Product, status domain.OrderStatus, city string, createdAt time.Time) domain.Order {
	t.Helper()
	o := domain.Order{
		OrderNumber:  fmt.Sprintf("ORD-%d-%d", buyerID, time.Now().UnixNano()),
		BuyerID:      buyerID,
		AddressID:    1,
		ShippingCity: city,
		Status:       status,
		Subtotal:     product.Price,
		TotalAmount:  product.Price,
		CreatedAt:    createdAt,
		Items: []domain.OrderItem{{
			ProductID:   product.ID,
			SellerID:    product.SellerID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    1,
			LineTotal:   product.Price,
		}},
	}
	require.NoError(t, db.Create(&o).Error)
	return o
}

// AssignOrder attaches an agent directly, bypassing the assignment pass.
func AssignOrder(t testing.TB, db *gorm.DB, orderID, agentID uint, status domain.OrderStatus) {
	t.Helper()
	require.NoError(t, db.Model(&domain.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{"delivery_agent_id": agentID, "status": status}).Error)
}
