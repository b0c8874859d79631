package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// OrderService places and lists orders.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, dispatcher events.Dispatcher, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orders: orders, products: products, dispatcher: dispatcher, logger: logger}
}

// ListOrders returns the orders of userID, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return orders, nil
}

// CreateOrder places an order for the given products. Duplicate ids count once and every
// id must exist. The price is the sum of the current product prices.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, productIDs []string) (*domain.Order, error) {
	ids := uniqueIDs(productIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewBadRequest("Please select at least one product")
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(products) != len(ids) {
		return nil, apperrors.NewNotFound("Product", map[string]any{"missing": missingIDs(ids, products)})
	}

	order := &domain.Order{
		ID:       uuid.NewString(),
		UserID:   userID,
		Products: products,
	}
	for _, p := range products {
		order.Price += p.Price
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventOrderPlaced, userID, order.ID,
		events.OrderPlacedPayload{ProductIDs: ids, Price: order.Price}))
	return order, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(ids []string, found []domain.Product) []string {
	present := make(map[string]struct{}, len(found))
	for _, p := range found {
		present[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
