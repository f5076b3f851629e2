package rest

import (
	"context"
	"net/http"
	"time"

	"myMarketplace/domain"
	"myMarketplace/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CartService interface {
	GetCart(ctx context.Context, buyerID uint) (domain.Cart, error)
	AddItem(ctx context.Context, buyerID, productID uint, quantity int) (domain.Cart, error)
	UpdateItem(ctx context.Context, buyerID, productID uint, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, buyerID, productID uint) (domain.Cart, error)
	Clear(ctx context.Context, buyerID uint) error
}

type WishlistService interface {
	List(ctx context.Context, buyerID uint) ([]domain.WishlistItem, error)
	Add(ctx context.Context, buyerID, productID uint) (domain.WishlistItem, error)
	Remove(ctx context.Context, buyerID, productID uint) error
	MoveToCart(ctx context.Context, buyerID, productID uint) (domain.Cart, error)
}

type CartHandler struct {
	cartService     CartService
	wishlistService WishlistService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCartHandler(cartService CartService, wishlistService WishlistService, validate *validator.Validate) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		wishlistService: wishlistService,
		validator:       validate,
		timeout:         defaultTimeout,
	}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type WishlistRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	cart, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req AddCartItemRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	cart, err := h.cartService.AddItem(ctx, middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(cart))
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	var req UpdateCartItemRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	cart, err := h.cartService.UpdateItem(ctx, middleware.UserID(c), productID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cart))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	cart, err := h.cartService.RemoveItem(ctx, middleware.UserID(c), productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cart))
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	if err := h.cartService.Clear(ctx, middleware.UserID(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("cart cleared"))
}

func (h *CartHandler) ListWishlist(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	items, err := h.wishlistService.List(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

func (h *CartHandler) AddToWishlist(c echo.Context) error {
	var req WishlistRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	item, err := h.wishlistService.Add(ctx, middleware.UserID(c), req.ProductID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(item))
}

func (h *CartHandler) RemoveFromWishlist(c echo.Context) error {
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	if err := h.wishlistService.Remove(ctx, middleware.UserID(c), productID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("removed from wishlist"))
}

func (h *CartHandler) MoveToCart(c echo.Context) error {
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	cart, err := h.wishlistService.MoveToCart(ctx, middleware.UserID(c), productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cart))
}
