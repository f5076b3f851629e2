package rest

import (
	"context"
	"net/http"
	"time"

	"myMarketplace/business/address"
	"myMarketplace/domain"
	"myMarketplace/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type AddressService interface {
	List(ctx context.Context, buyerID uint) ([]domain.Address, error)
	Get(ctx context.Context, buyerID, id uint) (domain.Address, error)
	Create(ctx context.Context, buyerID uint, in address.AddressInput) (domain.Address, error)
	Update(ctx context.Context, buyerID, id uint, in address.AddressInput) (domain.Address, error)
	SetDefault(ctx context.Context, buyerID, id uint) (domain.Address, error)
	Delete(ctx context.Context, buyerID, id uint) error
}

type AddressHandler struct {
	addressService AddressService
	timeout        time.Duration
}

func NewAddressHandler(addressService AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService, timeout: defaultTimeout}
}

func (h *AddressHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	addresses, err := h.addressService.List(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(addresses))
}

func (h *AddressHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	a, err := h.addressService.Get(ctx, middleware.UserID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(a))
}

func (h *AddressHandler) Create(c echo.Context) error {
	var req address.AddressInput
	if err := bind(c, nil, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	a, err := h.addressService.Create(ctx, middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(a))
}

func (h *AddressHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req address.AddressInput
	if err := bind(c, nil, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	a, err := h.addressService.Update(ctx, middleware.UserID(c), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(a))
}

func (h *AddressHandler) SetDefault(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	a, err := h.addressService.SetDefault(ctx, middleware.UserID(c), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(a))
}

func (h *AddressHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	if err := h.addressService.Delete(ctx, middleware.UserID(c), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("address deleted"))
}
