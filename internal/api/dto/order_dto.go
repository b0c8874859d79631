package dto

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// CreateOrderRequest lists the ids of the products being ordered.
type CreateOrderRequest struct {
	Products []string `json:"products"`
}

type OrderResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Price     float64           `json:"price"`
	Products  []ProductResponse `json:"products"`
	CreatedAt time.Time         `json:"createdAt"`
}

func NewOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Price:     o.Price,
		Products:  NewProductResponses(o.Products),
		CreatedAt: o.CreatedAt,
	}
}

func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
