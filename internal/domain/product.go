package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a cosmetic product in the catalog
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  Category  `json:"category" db:"category"`
	Price     *int      `json:"price,omitempty" db:"price"`
	ImageURL  string    `json:"image_url,omitempty" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductRanking is one row of the popularity ranking: a product together
// with the count and average rating of its published reviews after filters.
type ProductRanking struct {
	Product
	ReviewCount int     `json:"review_count" db:"review_count"`
	AvgRating   float64 `json:"avg_rating" db:"avg_rating"`
}

// ProductSearchResult is a search hit annotated with published-review
// aggregates. Unlike the ranking, zero-review products still appear.
type ProductSearchResult struct {
	Product
	ReviewCount int      `json:"review_count" db:"review_count"`
	AvgRating   *float64 `json:"avg_rating,omitempty" db:"avg_rating"`
}
