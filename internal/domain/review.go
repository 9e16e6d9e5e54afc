package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds for a published review
const (
	MinRating = 1
	MaxRating = 5
)

// MinCommentLength is the minimum length, in runes, of each comment on a
// published review. Drafts are exempt.
const MinCommentLength = 20

// Review is a user's review of a product. A review is either a draft
// (relaxed validation, visible only to its owner) or published.
//
// Rating is null only while the review is a draft. PostedAt is set exactly
// once, on first publish, and preserved by every later edit; a review
// reverted to draft keeps it. SkinType and AgeGroup are snapshots of the
// author's profile taken at write time, not live joins.
type Review struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	ProductID        uuid.UUID  `json:"product_id" db:"product_id"`
	Rating           *int       `json:"rating,omitempty" db:"rating"`
	GoodpointComment string     `json:"goodpoint_comment" db:"goodpoint_comment"`
	BadpointComment  string     `json:"badpoint_comment" db:"badpoint_comment"`
	ImageURL         string     `json:"image_url,omitempty" db:"image_url"`
	IsDraft          bool       `json:"is_draft" db:"is_draft"`
	SkinType         SkinType   `json:"skin_type,omitempty" db:"skin_type"`
	AgeGroup         AgeGroup   `json:"age_group,omitempty" db:"age_group"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	PostedAt         *time.Time `json:"posted_at,omitempty" db:"posted_at"`
}

// AnnotatedReview is a review decorated with the viewing user's favorite state
type AnnotatedReview struct {
	Review
	IsFavorited bool `json:"is_favorited"`
}

// ReviewFavorite is a user's bookmark of a published review. At most one row
// exists per (user, review); toggling alternates between present and absent.
type ReviewFavorite struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ReviewID  uuid.UUID `json:"review_id" db:"review_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FavoriteEntry is a favorite joined with its review and product, as shown on
// the favorites tab.
type FavoriteEntry struct {
	Favorite ReviewFavorite `json:"favorite"`
	Review   Review         `json:"review"`
	Product  Product        `json:"product"`
}
