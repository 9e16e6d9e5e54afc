package service

import (
	"context"

	"cosme-review/internal/domain"
	"cosme-review/internal/repository"
)

// RankingQuery is the caller-facing filter, as raw strings from the request.
// Empty strings mean "no filter"; non-empty values must belong to the closed
// enumerations.
type RankingQuery struct {
	Category string
	SkinType string
	AgeGroup string
	Limit    int
}

// RankingService computes popularity rankings over published reviews
type RankingService interface {
	Rank(ctx context.Context, query RankingQuery) ([]*domain.ProductRanking, error)
	Top(ctx context.Context, n int) ([]*domain.ProductRanking, error)
}

type rankingService struct {
	rankingRepo repository.RankingRepository
}

// NewRankingService creates a new instance of RankingService
func NewRankingService(rankingRepo repository.RankingRepository) RankingService {
	return &rankingService{rankingRepo: rankingRepo}
}

// Rank validates the filter values against the closed enumerations and runs
// the aggregation. Demographic filters apply to the snapshot fields on each
// review; the category filter restricts the product set itself.
func (s *rankingService) Rank(ctx context.Context, query RankingQuery) ([]*domain.ProductRanking, error) {
	var fields []FieldError
	filter := repository.RankingFilter{Limit: query.Limit}

	if query.Category != "" {
		category := domain.Category(query.Category)
		if !category.Valid() {
			fields = append(fields, FieldError{Field: "category", Message: "unknown category"})
		} else {
			filter.Category = &category
		}
	}

	if query.SkinType != "" {
		skinType := domain.SkinType(query.SkinType)
		if !skinType.Valid() {
			fields = append(fields, FieldError{Field: "skin_type", Message: "unknown skin type"})
		} else {
			filter.SkinType = &skinType
		}
	}

	if query.AgeGroup != "" {
		ageGroup := domain.AgeGroup(query.AgeGroup)
		if !ageGroup.Valid() {
			fields = append(fields, FieldError{Field: "age_group", Message: "unknown age group"})
		} else {
			filter.AgeGroup = &ageGroup
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return s.rankingRepo.Rank(ctx, filter)
}

// Top returns the head of the unfiltered ranking, as shown on the home page
func (s *rankingService) Top(ctx context.Context, n int) ([]*domain.ProductRanking, error) {
	return s.rankingRepo.Rank(ctx, repository.RankingFilter{Limit: n})
}
