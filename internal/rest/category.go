package rest

import (
	"context"
	"net/http"
	"time"

	"myMarketplace/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	categoryService CategoryService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService, validate *validator.Validate) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validate,
		timeout:         defaultTimeout,
	}
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(categories))
}

func (h *CategoryHandler) GetCategoryByID(c echo.Context) error {
	categoryID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	category, err := h.categoryService.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(category))
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	newCategory, err := h.categoryService.CreateCategory(ctx, &domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(newCategory))
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	categoryID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req CategoryRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	updatedCategory, err := h.categoryService.UpdateCategory(ctx, &domain.Category{
		ID:          categoryID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updatedCategory))
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	categoryID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	if err := h.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("category successfully deleted"))
}
