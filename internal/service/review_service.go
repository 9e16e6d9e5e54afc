package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"cosme-review/internal/domain"
	"cosme-review/internal/events"
	"cosme-review/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewAction selects the target state of an edit
type ReviewAction string

const (
	ActionPublish ReviewAction = "publish"
	ActionDraft   ReviewAction = "draft"
)

// ReviewInput carries the caller-editable fields of a review
type ReviewInput struct {
	Rating           *int
	GoodpointComment string
	BadpointComment  string
	ImageURL         string
}

// ReviewService orchestrates the review lifecycle: draft save, publish,
// edit, and the two delete paths. All operations take an explicit requester
// and enforce ownership themselves.
type ReviewService interface {
	SaveDraft(ctx context.Context, requester domain.Requester, productID uuid.UUID, input ReviewInput) (*domain.Review, error)
	Publish(ctx context.Context, requester domain.Requester, productID uuid.UUID, input ReviewInput) (*domain.Review, error)
	Edit(ctx context.Context, requester domain.Requester, reviewID uuid.UUID, input ReviewInput, action ReviewAction) (*domain.Review, error)
	Delete(ctx context.Context, requester domain.Requester, reviewID uuid.UUID) error
	DeleteDraft(ctx context.Context, requester domain.Requester, reviewID uuid.UUID) error
	GetDraft(ctx context.Context, requester domain.Requester, productID uuid.UUID) (*domain.Review, error)
	ListDrafts(ctx context.Context, requester domain.Requester) ([]*domain.Review, error)
	ListPublishedByUser(ctx context.Context, requester domain.Requester) ([]*domain.Review, error)
	ListForProduct(ctx context.Context, productID uuid.UUID, viewer *uuid.UUID) ([]*domain.AnnotatedReview, error)
	ListRecent(ctx context.Context, limit int, viewer *uuid.UUID) ([]*domain.AnnotatedReview, error)
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	productRepo  repository.ProductRepository
	profileRepo  repository.ProfileRepository
	favoriteRepo repository.FavoriteRepository
	publisher    events.Publisher
	logger       *zap.Logger
}

// NewReviewService creates a new instance of ReviewService. publisher may be
// nil, which disables eventing.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	profileRepo repository.ProfileRepository,
	favoriteRepo repository.FavoriteRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		productRepo:  productRepo,
		profileRepo:  profileRepo,
		favoriteRepo: favoriteRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// validateForPublish applies the full field rules: rating required and in
// range, both comments at least the minimum length in runes. Draft saves
// skip this entirely.
func validateForPublish(input ReviewInput) error {
	var fields []FieldError

	if input.Rating == nil {
		fields = append(fields, FieldError{Field: "rating", Message: "rating is required"})
	} else if *input.Rating < domain.MinRating || *input.Rating > domain.MaxRating {
		fields = append(fields, FieldError{
			Field:   "rating",
			Message: fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating),
		})
	}

	if utf8.RuneCountInString(input.GoodpointComment) < domain.MinCommentLength {
		fields = append(fields, FieldError{
			Field:   "goodpoint_comment",
			Message: fmt.Sprintf("comment must be at least %d characters", domain.MinCommentLength),
		})
	}

	if utf8.RuneCountInString(input.BadpointComment) < domain.MinCommentLength {
		fields = append(fields, FieldError{
			Field:   "badpoint_comment",
			Message: fmt.Sprintf("comment must be at least %d characters", domain.MinCommentLength),
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validateRatingRange lets a draft carry a rating or none at all, but never
// an out-of-range one.
func validateRatingRange(input ReviewInput) error {
	if input.Rating != nil && (*input.Rating < domain.MinRating || *input.Rating > domain.MaxRating) {
		return &ValidationError{Fields: []FieldError{{
			Field:   "rating",
			Message: fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating),
		}}}
	}
	return nil
}

// SaveDraft creates or overwrites the requester's draft for the product,
// snapshotting the current profile demographics onto it.
func (s *reviewService) SaveDraft(ctx context.Context, requester domain.Requester, productID uuid.UUID, input ReviewInput) (*domain.Review, error) {
	if err := validateRatingRange(input); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	review := &domain.Review{
		ID:               uuid.New(),
		UserID:           requester.ID,
		ProductID:        productID,
		Rating:           input.Rating,
		GoodpointComment: input.GoodpointComment,
		BadpointComment:  input.BadpointComment,
		ImageURL:         input.ImageURL,
		SkinType:         profile.SkinType,
		AgeGroup:         profile.AgeGroup,
		CreatedAt:        time.Now(),
	}

	if err := s.reviewRepo.SaveDraft(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Publish validates the input fully and stores a published review, consuming
// the requester's draft for the product if one exists. The original posted_at
// survives a republish.
func (s *reviewService) Publish(ctx context.Context, requester domain.Requester, productID uuid.UUID, input ReviewInput) (*domain.Review, error) {
	if err := validateForPublish(input); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	review := &domain.Review{
		ID:               uuid.New(),
		UserID:           requester.ID,
		ProductID:        productID,
		Rating:           input.Rating,
		GoodpointComment: input.GoodpointComment,
		BadpointComment:  input.BadpointComment,
		ImageURL:         input.ImageURL,
		SkinType:         profile.SkinType,
		AgeGroup:         profile.AgeGroup,
	}

	if err := s.reviewRepo.Publish(ctx, review); err != nil {
		return nil, err
	}

	s.emit(ctx, events.Event{
		Type:      events.TypeReviewPublished,
		UserID:    requester.ID.String(),
		ProductID: productID.String(),
		ReviewID:  review.ID.String(),
	})

	return review, nil
}

// Edit rewrites an existing review. Only the owner may edit. Fields are
// fully validated regardless of the target state; action=publish backfills
// posted_at only when it is null, action=draft leaves it untouched.
func (s *reviewService) Edit(ctx context.Context, requester domain.Requester, reviewID uuid.UUID, input ReviewInput, action ReviewAction) (*domain.Review, error) {
	if action != ActionPublish && action != ActionDraft {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "action",
			Message: "action must be publish or draft",
		}}}
	}

	if err := validateForPublish(input); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.UserID != requester.ID {
		return nil, ErrPermissionDenied
	}

	wasPublished := review.PostedAt != nil
	review.Rating = input.Rating
	review.GoodpointComment = input.GoodpointComment
	review.BadpointComment = input.BadpointComment
	review.ImageURL = input.ImageURL
	review.IsDraft = action == ActionDraft

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	if action == ActionPublish && !wasPublished {
		s.emit(ctx, events.Event{
			Type:      events.TypeReviewPublished,
			UserID:    requester.ID.String(),
			ProductID: review.ProductID.String(),
			ReviewID:  review.ID.String(),
		})
	}

	return review, nil
}

// Delete removes a published review. Staff may delete any review in any
// state; everyone else only their own, and never a draft through this path.
func (s *reviewService) Delete(ctx context.Context, requester domain.Requester, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if !requester.IsStaff {
		if review.UserID != requester.ID {
			return ErrPermissionDenied
		}
		if review.IsDraft {
			return ErrPermissionDenied
		}
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}

// DeleteDraft removes the requester's draft. Another user's draft, or a
// published review, is outside the requester's visible scope and reported as
// not found.
func (s *reviewService) DeleteDraft(ctx context.Context, requester domain.Requester, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.UserID != requester.ID || !review.IsDraft {
		return repository.ErrDraftNotFound
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}

// GetDraft returns the requester's draft for a product, for resuming
func (s *reviewService) GetDraft(ctx context.Context, requester domain.Requester, productID uuid.UUID) (*domain.Review, error) {
	return s.reviewRepo.FindDraft(ctx, requester.ID, productID)
}

// ListDrafts returns the requester's drafts, newest first
func (s *reviewService) ListDrafts(ctx context.Context, requester domain.Requester) ([]*domain.Review, error) {
	return s.reviewRepo.ListDrafts(ctx, requester.ID)
}

// ListPublishedByUser returns the requester's published reviews, newest posted first
func (s *reviewService) ListPublishedByUser(ctx context.Context, requester domain.Requester) ([]*domain.Review, error) {
	return s.reviewRepo.ListPublishedByUser(ctx, requester.ID)
}

// ListForProduct returns a product's published reviews annotated with the
// viewer's favorite state. An anonymous viewer gets every review annotated
// false without touching the favorite store.
func (s *reviewService) ListForProduct(ctx context.Context, productID uuid.UUID, viewer *uuid.UUID) ([]*domain.AnnotatedReview, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListPublishedByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return annotateReviews(ctx, s.favoriteRepo, reviews, viewer)
}

// ListRecent returns the newest published reviews across all products, for
// the home feed
func (s *reviewService) ListRecent(ctx context.Context, limit int, viewer *uuid.UUID) ([]*domain.AnnotatedReview, error) {
	reviews, err := s.reviewRepo.ListRecentPublished(ctx, limit)
	if err != nil {
		return nil, err
	}

	return annotateReviews(ctx, s.favoriteRepo, reviews, viewer)
}

func (s *reviewService) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The transaction has committed; the event is best-effort.
		s.logger.Warn("Failed to publish event",
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

// annotateReviews attaches is_favorited flags using one membership query per
// call. Shared by the review and favorite services.
func annotateReviews(ctx context.Context, favoriteRepo repository.FavoriteRepository, reviews []*domain.Review, viewer *uuid.UUID) ([]*domain.AnnotatedReview, error) {
	annotated := make([]*domain.AnnotatedReview, 0, len(reviews))

	if viewer == nil {
		for _, review := range reviews {
			annotated = append(annotated, &domain.AnnotatedReview{Review: *review})
		}
		return annotated, nil
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.ID)
	}

	favorited, err := favoriteRepo.FavoritedSet(ctx, *viewer, ids)
	if err != nil {
		return nil, err
	}

	for _, review := range reviews {
		annotated = append(annotated, &domain.AnnotatedReview{
			Review:      *review,
			IsFavorited: favorited[review.ID],
		})
	}

	return annotated, nil
}
