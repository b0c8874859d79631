package dto

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// ProductRequest is the body of create-product and update-product.
type ProductRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Count       int     `json:"count"`
}

func (r ProductRequest) Input() domain.ProductInput {
	return domain.ProductInput{
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		Image:       r.Image,
		Category:    r.Category,
		Rating:      r.Rating,
		Count:       r.Count,
	}
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Price       float64           `json:"price"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	CategoryID  string            `json:"categoryId"`
	Category    *CategoryResponse `json:"Category,omitempty"`
	Rating      float64           `json:"rating"`
	Count       int               `json:"count"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}

func NewProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		CategoryID:  p.CategoryID,
		Rating:      p.Rating,
		Count:       p.Count,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		resp.Category = &CategoryResponse{ID: p.Category.ID, Name: p.Category.Name}
	}
	return resp
}

func NewProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
