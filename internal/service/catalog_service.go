package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// CatalogService serves products and categories.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{products: products, categories: categories, dispatcher: dispatcher, logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("Product", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return product, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return categories, nil
}

// CreateProduct adds a product on behalf of actorID, creating its category if needed.
func (s *CatalogService) CreateProduct(ctx context.Context, actorID string, in domain.ProductInput) (*domain.Product, error) {
	in, err := validateProduct(in)
	if err != nil {
		return nil, err
	}
	product := productFromInput(uuid.NewString(), in)
	if err := s.products.Create(ctx, product, in.Category); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventProductCreated, actorID, product.ID,
		events.ProductChangedPayload{Title: product.Title, Price: product.Price, Category: in.Category}))
	return product, nil
}

// UpdateProduct replaces the writable fields of product id.
func (s *CatalogService) UpdateProduct(ctx context.Context, actorID, id string, in domain.ProductInput) (*domain.Product, error) {
	in, err := validateProduct(in)
	if err != nil {
		return nil, err
	}
	product := productFromInput(id, in)
	if err := s.products.Update(ctx, product, in.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Product", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventProductUpdated, actorID, product.ID,
		events.ProductChangedPayload{Title: product.Title, Price: product.Price, Category: in.Category}))
	return product, nil
}

func validateProduct(in domain.ProductInput) (domain.ProductInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)

	details := map[string]any{}
	if in.Title == "" {
		details["title"] = "required"
	}
	if in.Category == "" {
		details["category"] = "required"
	}
	if in.Price < 0 {
		details["price"] = "must not be negative"
	}
	if in.Count < 0 {
		details["count"] = "must not be negative"
	}
	if len(details) > 0 {
		return in, apperrors.NewValidationError("Invalid product", details)
	}
	return in, nil
}

func productFromInput(id string, in domain.ProductInput) *domain.Product {
	return &domain.Product{
		ID:          id,
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
		Rating:      in.Rating,
		Count:       in.Count,
	}
}
