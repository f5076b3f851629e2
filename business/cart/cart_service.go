package cart

import (
	"context"
	"errors"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/serrors"
)

// CartRepository contract interface
type CartRepository interface {
	ListByBuyer(ctx context.Context, buyerID uint) ([]domain.CartItem, error)
	FindItem(ctx context.Context, buyerID, productID uint) (domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, buyerID, productID uint, quantity int) error
	Remove(ctx context.Context, buyerID, productID uint) error
	Clear(ctx context.Context, buyerID uint) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type cartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewCartService(cartRepo CartRepository, productRepo ProductRepository) *cartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, buyerID uint) (domain.Cart, error) {
	items, err := s.cartRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		logger.Error("failed to load cart", "buyer_id", buyerID, "error", err)
		return domain.Cart{}, err
	}

	// products deleted by their seller drop out of the cart view
	live := items[:0]
	for _, it := range items {
		if it.Product != nil {
			live = append(live, it)
		}
	}

	return domain.NewCart(live), nil
}

func (s *cartService) loadProduct(ctx context.Context, productID uint) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return domain.Product{}, serrors.With(serrors.ErrNotFound, "product %d not found", productID)
		}
		return domain.Product{}, err
	}
	return product, nil
}

func checkStock(product domain.Product, quantity int) error {
	if quantity > product.Stock {
		return serrors.With(serrors.ErrConflict, "only %d of %q left in stock", product.Stock, product.Name)
	}
	return nil
}

// AddItem merges with an existing line for the same product.
func (s *cartService) AddItem(ctx context.Context, buyerID, productID uint, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, serrors.With(serrors.ErrBadRequest, "quantity must be at least 1")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	existing, err := s.cartRepo.FindItem(ctx, buyerID, productID)
	switch {
	case err == nil:
		total := existing.Quantity + quantity
		if err := checkStock(product, total); err != nil {
			return domain.Cart{}, err
		}
		if err := s.cartRepo.UpdateQuantity(ctx, buyerID, productID, total); err != nil {
			return domain.Cart{}, err
		}
	case errors.Is(err, serrors.ErrNotFound):
		if err := checkStock(product, quantity); err != nil {
			return domain.Cart{}, err
		}
		item := &domain.CartItem{BuyerID: buyerID, ProductID: productID, Quantity: quantity}
		if err := s.cartRepo.Create(ctx, item); err != nil {
			logger.Error("failed to add cart item", "buyer_id", buyerID, "error", err)
			return domain.Cart{}, err
		}
	default:
		return domain.Cart{}, err
	}

	return s.GetCart(ctx, buyerID)
}

func (s *cartService) UpdateItem(ctx context.Context, buyerID, productID uint, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		return domain.Cart{}, serrors.With(serrors.ErrBadRequest, "quantity must be at least 1")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := checkStock(product, quantity); err != nil {
		return domain.Cart{}, err
	}

	if err := s.cartRepo.UpdateQuantity(ctx, buyerID, productID, quantity); err != nil {
		return domain.Cart{}, err
	}

	return s.GetCart(ctx, buyerID)
}

func (s *cartService) RemoveItem(ctx context.Context, buyerID, productID uint) (domain.Cart, error) {
	if err := s.cartRepo.Remove(ctx, buyerID, productID); err != nil {
		return domain.Cart{}, err
	}

	return s.GetCart(ctx, buyerID)
}

func (s *cartService) Clear(ctx context.Context, buyerID uint) error {
	if err := s.cartRepo.Clear(ctx, buyerID); err != nil {
		logger.Error("failed to clear cart", "buyer_id", buyerID, "error", err)
		return err
	}
	return nil
}
