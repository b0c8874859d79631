package domain

import "time"

// Category groups products. Names are unique.
type Category struct {
	ID   string
	Name string
}

// Product is a catalog item.
type Product struct {
	ID          string
	Title       string
	Price       float64
	Description string
	Image       string
	CategoryID  string
	Category    *Category
	Rating      float64
	Count       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductInput carries the writable product fields. Category is a category name and is
// created on first use.
type ProductInput struct {
	Title       string
	Price       float64
	Description string
	Image       string
	Category    string
	Rating      float64
	Count       int
}
