package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cosme-review/internal/domain"
)

// RankingFilter narrows the ranking. Category restricts the product set;
// SkinType and AgeGroup restrict the reviews entering the aggregation, and
// match the snapshot columns on each review, not the author's live profile.
type RankingFilter struct {
	Category *domain.Category
	SkinType *domain.SkinType
	AgeGroup *domain.AgeGroup
	Limit    int
}

// RankingRepository computes the popularity ranking. No materialized state:
// every call runs the aggregation, so results are always fresh.
type RankingRepository interface {
	Rank(ctx context.Context, filter RankingFilter) ([]*domain.ProductRanking, error)
}

type rankingRepository struct {
	db *sql.DB
}

// NewRankingRepository creates a new instance of RankingRepository
func NewRankingRepository(db *sql.DB) RankingRepository {
	return &rankingRepository{db: db}
}

// Rank aggregates published reviews per product: count and average rating
// over the filtered review set only, products with zero matching reviews
// dropped by the inner join, ordered by count then average descending with
// product id as a deterministic tie-break.
func (r *rankingRepository) Rank(ctx context.Context, filter RankingFilter) ([]*domain.ProductRanking, error) {
	joinClause := publishedReviewJoin
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if filter.SkinType != nil {
		joinClause += fmt.Sprintf(" AND r.skin_type = $%d", argIndex)
		args = append(args, *filter.SkinType)
		argIndex++
	}
	if filter.AgeGroup != nil {
		joinClause += fmt.Sprintf(" AND r.age_group = $%d", argIndex)
		args = append(args, *filter.AgeGroup)
		argIndex++
	}
	if filter.Category != nil {
		whereClause = fmt.Sprintf("WHERE p.category = $%d", argIndex)
		args = append(args, *filter.Category)
		argIndex++
	}

	limitClause := ""
	if filter.Limit > 0 {
		limitClause = fmt.Sprintf("LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.category, p.price, p.image_url, p.created_at, p.updated_at,
		       COUNT(r.id) AS review_count,
		       AVG(r.rating) AS avg_rating
		FROM products p
		JOIN reviews r ON %s
		%s
		GROUP BY p.id
		ORDER BY review_count DESC, avg_rating DESC, p.id ASC
		%s
	`, joinClause, whereClause, limitClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	defer rows.Close()

	rankings := []*domain.ProductRanking{}
	for rows.Next() {
		ranking := &domain.ProductRanking{}
		err := rows.Scan(
			&ranking.ID,
			&ranking.Name,
			&ranking.Category,
			&ranking.Price,
			&ranking.ImageURL,
			&ranking.CreatedAt,
			&ranking.UpdatedAt,
			&ranking.ReviewCount,
			&ranking.AvgRating,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		rankings = append(rankings, ranking)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rankings: %w", err)
	}

	return rankings, nil
}
