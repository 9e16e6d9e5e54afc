package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cosme-review/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrDraftNotFound  = errors.New("draft not found")
)

const reviewColumns = `id, user_id, product_id, rating, goodpoint_comment, badpoint_comment, image_url, is_draft, skin_type, age_group, created_at, posted_at`

// ReviewRepository defines the interface for review data access.
//
// SaveDraft and Publish carry the draft/publish state machine: the partial
// unique index on (user_id, product_id) WHERE is_draft guarantees at most one
// draft per pair even under concurrent saves, and posted_at is only ever
// assigned when it is currently null.
type ReviewRepository interface {
	SaveDraft(ctx context.Context, review *domain.Review) error
	Publish(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	FindDraft(ctx context.Context, userID, productID uuid.UUID) (*domain.Review, error)
	ListDrafts(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
	ListPublishedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
	ListPublishedByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
	ListRecentPublished(ctx context.Context, limit int) ([]*domain.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// SaveDraft creates or overwrites the caller's draft for a product in a
// single atomic upsert. An existing draft keeps its id and created_at; its
// image is only replaced when a new one is provided. posted_at is never
// touched here.
func (r *reviewRepository) SaveDraft(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, product_id, rating, goodpoint_comment, badpoint_comment, image_url, is_draft, skin_type, age_group, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9, $10)
		ON CONFLICT (user_id, product_id) WHERE is_draft
		DO UPDATE SET
			rating = EXCLUDED.rating,
			goodpoint_comment = EXCLUDED.goodpoint_comment,
			badpoint_comment = EXCLUDED.badpoint_comment,
			image_url = CASE WHEN EXCLUDED.image_url <> '' THEN EXCLUDED.image_url ELSE reviews.image_url END,
			skin_type = EXCLUDED.skin_type,
			age_group = EXCLUDED.age_group
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		review.ID,
		review.UserID,
		review.ProductID,
		review.Rating,
		review.GoodpointComment,
		review.BadpointComment,
		review.ImageURL,
		review.SkinType,
		review.AgeGroup,
		review.CreatedAt,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	review.IsDraft = true
	return nil
}

// Publish stores a fully validated review. If the caller has a draft for the
// product it is consumed in place (same row id); otherwise a new published
// row is inserted. posted_at is assigned only when currently null, so
// republishing preserves the original post time. Runs in one transaction.
func (r *reviewRepository) Publish(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	var draftID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM reviews
		WHERE user_id = $1 AND product_id = $2 AND is_draft
		FOR UPDATE
	`, review.UserID, review.ProductID).Scan(&draftID)

	switch {
	case err == sql.ErrNoRows:
		query := `
			INSERT INTO reviews (id, user_id, product_id, rating, goodpoint_comment, badpoint_comment, image_url, is_draft, skin_type, age_group, created_at, posted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9, $10, $11)
			RETURNING id, created_at, posted_at
		`
		err = tx.QueryRowContext(
			ctx,
			query,
			review.ID,
			review.UserID,
			review.ProductID,
			review.Rating,
			review.GoodpointComment,
			review.BadpointComment,
			review.ImageURL,
			review.SkinType,
			review.AgeGroup,
			now,
			now,
		).Scan(&review.ID, &review.CreatedAt, &review.PostedAt)
		if err != nil {
			return fmt.Errorf("failed to insert published review: %w", err)
		}

	case err != nil:
		return fmt.Errorf("failed to look up draft: %w", err)

	default:
		query := `
			UPDATE reviews
			SET rating = $2,
			    goodpoint_comment = $3,
			    badpoint_comment = $4,
			    image_url = CASE WHEN $5 <> '' THEN $5 ELSE image_url END,
			    is_draft = FALSE,
			    skin_type = $6,
			    age_group = $7,
			    posted_at = COALESCE(posted_at, $8)
			WHERE id = $1
			RETURNING id, created_at, posted_at
		`
		err = tx.QueryRowContext(
			ctx,
			query,
			draftID,
			review.Rating,
			review.GoodpointComment,
			review.BadpointComment,
			review.ImageURL,
			review.SkinType,
			review.AgeGroup,
			now,
		).Scan(&review.ID, &review.CreatedAt, &review.PostedAt)
		if err != nil {
			return fmt.Errorf("failed to publish draft: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	review.IsDraft = false
	return nil
}

// Update rewrites an existing review's fields for an edit. review.IsDraft
// carries the requested target state: publishing backfills posted_at only if
// null, reverting to draft leaves posted_at alone.
func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2,
		    goodpoint_comment = $3,
		    badpoint_comment = $4,
		    image_url = CASE WHEN $5 <> '' THEN $5 ELSE image_url END,
		    is_draft = $6,
		    posted_at = CASE WHEN $6 THEN posted_at ELSE COALESCE(posted_at, $7) END
		WHERE id = $1
		RETURNING posted_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		review.ID,
		review.Rating,
		review.GoodpointComment,
		review.BadpointComment,
		review.ImageURL,
		review.IsDraft,
		time.Now(),
	).Scan(&review.PostedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to update review: %w", err)
	}

	return nil
}

// Delete removes a review; its favorites go with it via ON DELETE CASCADE
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// FindByID retrieves a review by ID
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

// FindDraft retrieves a user's draft for a product, if any
func (r *reviewRepository) FindDraft(ctx context.Context, userID, productID uuid.UUID) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND product_id = $2 AND is_draft`

	review, err := r.scanRow(r.db.QueryRowContext(ctx, query, userID, productID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to find draft: %w", err)
	}

	return review, nil
}

// ListDrafts retrieves a user's drafts, newest first
func (r *reviewRepository) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND is_draft
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListPublishedByUser retrieves a user's published reviews, newest posted first
func (r *reviewRepository) ListPublishedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND is_draft = FALSE AND posted_at IS NOT NULL
		ORDER BY posted_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListPublishedByProduct retrieves a product's published reviews, newest posted first
func (r *reviewRepository) ListPublishedByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND is_draft = FALSE AND posted_at IS NOT NULL
		ORDER BY posted_at DESC
	`
	return r.list(ctx, query, productID)
}

// ListRecentPublished retrieves the newest published reviews across all products
func (r *reviewRepository) ListRecentPublished(ctx context.Context, limit int) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE is_draft = FALSE AND posted_at IS NOT NULL
		ORDER BY posted_at DESC
		LIMIT $1
	`
	return r.list(ctx, query, limit)
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.ProductID,
			&review.Rating,
			&review.GoodpointComment,
			&review.BadpointComment,
			&review.ImageURL,
			&review.IsDraft,
			&review.SkinType,
			&review.AgeGroup,
			&review.CreatedAt,
			&review.PostedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) scanRow(row *sql.Row) (*domain.Review, error) {
	review := &domain.Review{}
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ProductID,
		&review.Rating,
		&review.GoodpointComment,
		&review.BadpointComment,
		&review.ImageURL,
		&review.IsDraft,
		&review.SkinType,
		&review.AgeGroup,
		&review.CreatedAt,
		&review.PostedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}
