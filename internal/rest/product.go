package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"myMarketplace/business/product"
	"myMarketplace/domain"
	"myMarketplace/internal/middleware"
	"myMarketplace/pkg/serrors"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
	GetProductByID(ctx context.Context, id uint) (*domain.Product, error)
	CreateProduct(ctx context.Context, sellerID uint, in product.CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, sellerID, id uint, in product.UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, sellerID, id uint) error
	SearchProducts(ctx context.Context, query string, page, size int) (domain.ProductPage, error)
}

type ProductHandler struct {
	productService ProductService
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		timeout:        defaultTimeout,
	}
}

func productFilter(c echo.Context) (domain.ProductFilter, error) {
	var (
		filter domain.ProductFilter
		err    error
	)

	filter.Query = c.QueryParam("q")
	filter.InStock = c.QueryParam("in_stock") == "true"

	if filter.Page, err = intQuery(c, "page", 1); err != nil {
		return filter, err
	}
	if filter.Size, err = intQuery(c, "size", domain.DefaultPageSize); err != nil {
		return filter, err
	}

	for name, dst := range map[string]**uint{"category_id": &filter.CategoryID, "seller_id": &filter.SellerID} {
		if raw := c.QueryParam(name); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return filter, serrors.With(serrors.ErrBadRequest, "invalid %s", name)
			}
			id := uint(v)
			*dst = &id
		}
	}

	for name, dst := range map[string]**float64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		if raw := c.QueryParam(name); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				return filter, serrors.With(serrors.ErrBadRequest, "invalid %s", name)
			}
			*dst = &v
		}
	}

	filter.Normalize()
	return filter, nil
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter, err := productFilter(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	page, err := h.productService.ListProducts(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page))
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return err
	}
	size, err := intQuery(c, "size", domain.DefaultPageSize)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	result, err := h.productService.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	p, err := h.productService.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(p))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req product.CreateProductInput
	if err := bind(c, nil, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	p, err := h.productService.CreateProduct(ctx, middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(p))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req product.UpdateProductInput
	if err := bind(c, nil, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	p, err := h.productService.UpdateProduct(ctx, middleware.UserID(c), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(p))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, middleware.UserID(c), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("product successfully deleted"))
}
