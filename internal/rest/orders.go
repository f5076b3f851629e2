package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"myMarketplace/domain"
	"myMarketplace/internal/middleware"
	"myMarketplace/pkg/serrors"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		Checkout(ctx context.Context, buyerID, addressID uint) (domain.Order, error)
		ListBuyerOrders(ctx context.Context, buyerID uint, statuses []domain.OrderStatus) ([]domain.Order, error)
		GetBuyerOrder(ctx context.Context, buyerID, orderID uint) (domain.Order, error)
		CancelByBuyer(ctx context.Context, buyerID, orderID uint) (domain.Order, error)
		ListSellerOrders(ctx context.Context, sellerID uint, statuses []domain.OrderStatus) ([]domain.Order, error)
		GetSellerOrder(ctx context.Context, sellerID, orderID uint) (domain.Order, error)
		UpdateStatusBySeller(ctx context.Context, sellerID, orderID uint, next domain.OrderStatus) (domain.Order, error)
		ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
		GetOrder(ctx context.Context, id uint) (domain.Order, error)
		Transition(ctx context.Context, orderID uint, next domain.OrderStatus) (domain.Order, error)
	}

	CheckoutInput struct {
		AddressID uint `json:"address_id" validate:"required"`
	}

	StatusInput struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService, validate *validator.Validate) *OrdersHandler {
	return &OrdersHandler{
		validate:      validate,
		ordersService: ordersService,
		timeout:       defaultTimeout,
	}
}

func (h *OrdersHandler) bindStatus(c echo.Context) (domain.OrderStatus, error) {
	var input StatusInput
	if err := bind(c, h.validate, &input); err != nil {
		return "", err
	}
	st, err := domain.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid status")
	}
	return st, nil
}

func (h *OrdersHandler) Checkout(c echo.Context) error {
	var input CheckoutInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.Checkout(ctx, middleware.UserID(c), input.AddressID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

func (h *OrdersHandler) ListBuyerOrders(c echo.Context) error {
	statuses, err := statusesQuery(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	orders, err := h.ordersService.ListBuyerOrders(ctx, middleware.UserID(c), statuses)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *OrdersHandler) GetBuyerOrder(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.GetBuyerOrder(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) CancelOrder(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.CancelByBuyer(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) ListSellerOrders(c echo.Context) error {
	statuses, err := statusesQuery(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	orders, err := h.ordersService.ListSellerOrders(ctx, middleware.UserID(c), statuses)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *OrdersHandler) GetSellerOrder(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.GetSellerOrder(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) UpdateSellerOrderStatus(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	next, err := h.bindStatus(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.UpdateStatusBySeller(ctx, middleware.UserID(c), orderID, next)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) ListAllOrders(c echo.Context) error {
	statuses, err := statusesQuery(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	orders, err := h.ordersService.ListOrders(ctx, domain.OrderFilter{Statuses: statuses})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *OrdersHandler) GetOrder(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *OrdersHandler) ForceStatus(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	next, err := h.bindStatus(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.ordersService.Transition(ctx, orderID, next)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}
