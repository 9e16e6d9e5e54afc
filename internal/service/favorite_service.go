package service

import (
	"context"

	"cosme-review/internal/domain"
	"cosme-review/internal/repository"

	"github.com/google/uuid"
)

// FavoriteService manages a user's review bookmarks
type FavoriteService interface {
	Toggle(ctx context.Context, requester domain.Requester, reviewID uuid.UUID) (added bool, err error)
	ListByUser(ctx context.Context, requester domain.Requester) ([]*domain.FavoriteEntry, error)
	Annotate(ctx context.Context, reviews []*domain.Review, viewer *uuid.UUID) ([]*domain.AnnotatedReview, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	reviewRepo   repository.ReviewRepository
}

// NewFavoriteService creates a new instance of FavoriteService
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, reviewRepo repository.ReviewRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		reviewRepo:   reviewRepo,
	}
}

// Toggle flips the requester's favorite on a review: absent inserts, present
// deletes. Every call changes state by exactly one edge. Drafts are outside
// everyone's favoriting scope, including their owner's.
func (s *favoriteService) Toggle(ctx context.Context, requester domain.Requester, reviewID uuid.UUID) (bool, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return false, err
	}

	if review.IsDraft {
		return false, repository.ErrReviewNotFound
	}

	return s.favoriteRepo.Toggle(ctx, requester.ID, reviewID)
}

// ListByUser returns the requester's favorites with review and product joined
func (s *favoriteService) ListByUser(ctx context.Context, requester domain.Requester) ([]*domain.FavoriteEntry, error) {
	return s.favoriteRepo.ListByUser(ctx, requester.ID)
}

// Annotate attaches is_favorited flags for the viewer; an absent viewer gets
// all-false annotations without a store query.
func (s *favoriteService) Annotate(ctx context.Context, reviews []*domain.Review, viewer *uuid.UUID) ([]*domain.AnnotatedReview, error) {
	return annotateReviews(ctx, s.favoriteRepo, reviews, viewer)
}
