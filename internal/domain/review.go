package domain

import "time"

// Review is an unauthenticated, user-submitted rating tied to one product.
// Reviews are immutable and append-only; there is no update or delete path.
type Review struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Title      *string   `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewStats holds per-product aggregate review figures. Average is the
// arithmetic mean of ratings rounded to one decimal place; a product with no
// reviews has count 0 and average 0.
type ReviewStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
