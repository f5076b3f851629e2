package wishlist

import (
	"context"
	"errors"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/serrors"
)

// WishlistRepository contract interface
type WishlistRepository interface {
	ListByBuyer(ctx context.Context, buyerID uint) ([]domain.WishlistItem, error)
	FindItem(ctx context.Context, buyerID, productID uint) (domain.WishlistItem, error)
	Create(ctx context.Context, item *domain.WishlistItem) error
	Remove(ctx context.Context, buyerID, productID uint) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

// CartAdder is the part of the cart service MoveToCart needs.
type CartAdder interface {
	AddItem(ctx context.Context, buyerID, productID uint, quantity int) (domain.Cart, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type wishlistService struct {
	wishlistRepo WishlistRepository
	productRepo  ProductRepository
	cart         CartAdder
	tx           Transactor
}

func NewWishlistService(wishlistRepo WishlistRepository, productRepo ProductRepository, cart CartAdder, tx Transactor) *wishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		cart:         cart,
		tx:           tx,
	}
}

func (s *wishlistService) List(ctx context.Context, buyerID uint) ([]domain.WishlistItem, error) {
	items, err := s.wishlistRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		logger.Error("failed to list wishlist", "buyer_id", buyerID, "error", err)
		return nil, err
	}

	live := items[:0]
	for _, it := range items {
		if it.Product != nil {
			live = append(live, it)
		}
	}

	return live, nil
}

// Add is idempotent: a product already on the list returns the existing row.
func (s *wishlistService) Add(ctx context.Context, buyerID, productID uint) (domain.WishlistItem, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.WishlistItem{}, err
	}

	existing, err := s.wishlistRepo.FindItem(ctx, buyerID, productID)
	if err == nil {
		existing.Product = &product
		return existing, nil
	}
	if !errors.Is(err, serrors.ErrNotFound) {
		return domain.WishlistItem{}, err
	}

	item := domain.WishlistItem{BuyerID: buyerID, ProductID: productID}
	if err := s.wishlistRepo.Create(ctx, &item); err != nil {
		logger.Error("failed to add wishlist item", "buyer_id", buyerID, "error", err)
		return domain.WishlistItem{}, err
	}
	item.Product = &product

	return item, nil
}

func (s *wishlistService) Remove(ctx context.Context, buyerID, productID uint) error {
	return s.wishlistRepo.Remove(ctx, buyerID, productID)
}

// MoveToCart adds one unit to the cart and drops the product from the wishlist.
func (s *wishlistService) MoveToCart(ctx context.Context, buyerID, productID uint) (domain.Cart, error) {
	var cart domain.Cart

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.wishlistRepo.FindItem(ctx, buyerID, productID); err != nil {
			return err
		}

		if err := s.wishlistRepo.Remove(ctx, buyerID, productID); err != nil {
			return err
		}

		var err error
		cart, err = s.cart.AddItem(ctx, buyerID, productID, 1)
		return err
	})
	if err != nil {
		return domain.Cart{}, err
	}

	return cart, nil
}
