package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/serrors"

	"github.com/go-playground/validator/v10"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
}

// CategoryRepository contract interface
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Category, error)
}

// SearchIndex contract interface
type SearchIndex interface {
	Index(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type productService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	index        SearchIndex
	validate     *validator.Validate
}

// NewProductService builds the catalog service. index may be nil, in which
// case search falls back to the database.
func NewProductService(productRepo ProductRepository, categoryRepo CategoryRepository, index SearchIndex, validate *validator.Validate) *productService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		index:        index,
		validate:     validate,
	}
}

type CreateProductInput struct {
	CategoryID  *uint   `json:"category_id"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductInput leaves nil fields untouched.
type UpdateProductInput struct {
	CategoryID  *uint    `json:"category_id"`
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
}

func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Field() {
		case "name":
			return serrors.With(serrors.ErrBadRequest, "product name is required")
		case "price":
			return serrors.With(serrors.ErrBadRequest, "price must be greater than 0")
		case "stock":
			return serrors.With(serrors.ErrBadRequest, "stock cannot be negative")
		}
		return serrors.With(serrors.ErrBadRequest, "invalid %s", fe.Field())
	}
	return serrors.Wrap(serrors.ErrBadRequest, err, "invalid product")
}

func (s *productService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return serrors.With(serrors.ErrBadRequest, "category %d does not exist", *id)
		}
		return err
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProductPage{}, fmt.Errorf("context error: %w", err)
	}

	page, err := s.productRepo.List(ctx, filter)
	if err != nil {
		logger.Error("failed to list products", "error", err)
		return domain.ProductPage{}, err
	}

	return page, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*domain.Product, error) {
	if id == 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid product id")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", "id", id, "error", err)
		return nil, err
	}

	return &product, nil
}

func (s *productService) CreateProduct(ctx context.Context, sellerID uint, in CreateProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	product := &domain.Product{
		SellerID:    sellerID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       domain.RoundMoney(in.Price),
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create product", "seller_id", sellerID, "error", err)
		return nil, err
	}

	s.syncIndex(ctx, *product)

	return product, nil
}

// owned loads a product and checks that the seller owns it.
func (s *productService) owned(ctx context.Context, sellerID, id uint) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product.SellerID != sellerID {
		return domain.Product{}, serrors.With(serrors.ErrForbidden, "product belongs to another seller")
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, sellerID, id uint, in UpdateProductInput) (*domain.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	product, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = in.CategoryID
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = domain.RoundMoney(*in.Price)
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to update product", "id", id, "error", err)
		return nil, err
	}

	s.syncIndex(ctx, product)

	return &product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, sellerID, id uint) error {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", "id", id, "error", err)
		return err
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			logger.Warn("failed to remove product from search index", "id", id, "error", err)
		}
	}

	return nil
}

// SearchProducts uses the search index when configured, the database otherwise.
func (s *productService) SearchProducts(ctx context.Context, query string, page, size int) (domain.ProductPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ProductPage{}, serrors.With(serrors.ErrBadRequest, "query is required")
	}

	filter := domain.ProductFilter{Query: query, Page: page, Size: size}
	filter.Normalize()

	if s.index == nil {
		return s.productRepo.List(ctx, filter)
	}

	total, ids, err := s.index.Search(ctx, query, filter.Offset(), filter.Size)
	if err != nil {
		logger.Warn("search index unavailable, falling back to database", "error", err)
		return s.productRepo.List(ctx, filter)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return domain.ProductPage{}, err
	}

	return domain.ProductPage{Products: products, Total: total, Page: filter.Page, Size: filter.Size}, nil
}

// Reindex pushes every product to the search index.
func (s *productService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, serrors.With(serrors.ErrBadRequest, "search index is not configured")
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	for i, p := range products {
		if err := s.index.Index(ctx, p); err != nil {
			return i, fmt.Errorf("failed to index product %d: %w", p.ID, err)
		}
	}

	return len(products), nil
}

func (s *productService) syncIndex(ctx context.Context, product domain.Product) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, product); err != nil {
		logger.Warn("failed to index product", "id", product.ID, "error", err)
	}
}
