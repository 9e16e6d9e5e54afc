package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cosme-review/internal/domain"

	"github.com/google/uuid"
)

// FavoriteRepository defines the interface for review favorite data access
type FavoriteRepository interface {
	Toggle(ctx context.Context, userID, reviewID uuid.UUID) (added bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.FavoriteEntry, error)
	FavoritedSet(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type favoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new instance of FavoriteRepository
func NewFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Toggle flips the favorite edge for (user, review) by exactly one state: an
// atomic insert-on-conflict-do-nothing, falling back to a delete when the row
// already existed. The unique constraint keeps concurrent double-clicks from
// creating duplicate rows.
func (r *favoriteRepository) Toggle(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO review_favorites (id, user_id, review_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, review_id) DO NOTHING
	`

	result, err := tx.ExecContext(ctx, insertQuery, uuid.New(), userID, reviewID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to insert favorite: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	added := inserted == 1
	if !added {
		deleteQuery := `DELETE FROM review_favorites WHERE user_id = $1 AND review_id = $2`
		if _, err := tx.ExecContext(ctx, deleteQuery, userID, reviewID); err != nil {
			return false, fmt.Errorf("failed to delete favorite: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

// ListByUser retrieves a user's favorites joined with the review and product
func (r *favoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.FavoriteEntry, error) {
	query := `
		SELECT f.id, f.user_id, f.review_id, f.created_at,
		       r.id, r.user_id, r.product_id, r.rating, r.goodpoint_comment, r.badpoint_comment,
		       r.image_url, r.is_draft, r.skin_type, r.age_group, r.created_at, r.posted_at,
		       p.id, p.name, p.category, p.price, p.image_url, p.created_at, p.updated_at
		FROM review_favorites f
		JOIN reviews r ON r.id = f.review_id
		JOIN products p ON p.id = r.product_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	entries := []*domain.FavoriteEntry{}
	for rows.Next() {
		entry := &domain.FavoriteEntry{}
		err := rows.Scan(
			&entry.Favorite.ID,
			&entry.Favorite.UserID,
			&entry.Favorite.ReviewID,
			&entry.Favorite.CreatedAt,
			&entry.Review.ID,
			&entry.Review.UserID,
			&entry.Review.ProductID,
			&entry.Review.Rating,
			&entry.Review.GoodpointComment,
			&entry.Review.BadpointComment,
			&entry.Review.ImageURL,
			&entry.Review.IsDraft,
			&entry.Review.SkinType,
			&entry.Review.AgeGroup,
			&entry.Review.CreatedAt,
			&entry.Review.PostedAt,
			&entry.Product.ID,
			&entry.Product.Name,
			&entry.Product.Category,
			&entry.Product.Price,
			&entry.Product.ImageURL,
			&entry.Product.CreatedAt,
			&entry.Product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return entries, nil
}

// FavoritedSet reports which of the given reviews the user has favorited, in
// one membership query.
func (r *favoriteRepository) FavoritedSet(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	favorited := make(map[uuid.UUID]bool, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return favorited, nil
	}

	placeholders := make([]string, 0, len(reviewIDs))
	args := []interface{}{userID}
	for i, id := range reviewIDs {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT review_id FROM review_favorites
		WHERE user_id = $1 AND review_id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorited set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reviewID uuid.UUID
		if err := rows.Scan(&reviewID); err != nil {
			return nil, fmt.Errorf("failed to scan favorited review id: %w", err)
		}
		favorited[reviewID] = true
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorited set: %w", err)
	}

	return favorited, nil
}
