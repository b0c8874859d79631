package domain

import "time"

// Order is a purchase by a user. Price is the sum of the product prices at creation time.
type Order struct {
	ID        string
	UserID    string
	Price     float64
	Products  []Product
	CreatedAt time.Time
}
