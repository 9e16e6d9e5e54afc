package service

import (
	"context"
	"fmt"
	"time"

	"cosme-review/internal/domain"
	"cosme-review/internal/repository"

	"github.com/google/uuid"
)

// ProfileInput carries demographic fields for a profile update. Empty strings
// clear the corresponding field.
type ProfileInput struct {
	AgeGroup string
	Gender   string
	SkinType string
}

// ProfileService defines the interface for demographic profile logic
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input ProfileInput) (*domain.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

// Get returns the profile for a user, creating an empty one if none exists.
func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func validateProfileInput(input ProfileInput) error {
	var fields []FieldError

	if input.AgeGroup != "" && !domain.AgeGroup(input.AgeGroup).Valid() {
		fields = append(fields, FieldError{Field: "age_group", Message: "unknown age group"})
	}
	if input.Gender != "" && !domain.Gender(input.Gender).Valid() {
		fields = append(fields, FieldError{Field: "gender", Message: "unknown gender"})
	}
	if input.SkinType != "" && !domain.SkinType(input.SkinType).Valid() {
		fields = append(fields, FieldError{Field: "skin_type", Message: "unknown skin type"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Update replaces the demographic fields of a user's profile. Changes do not
// touch demographics already snapshotted onto published reviews.
func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input ProfileInput) (*domain.Profile, error) {
	if err := validateProfileInput(input); err != nil {
		return nil, err
	}

	// Make sure the row exists before updating it; accounts created before
	// profiles were introduced may not have one.
	if _, err := s.profileRepo.GetOrCreate(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	profile := &domain.Profile{
		UserID:    userID,
		AgeGroup:  domain.AgeGroup(input.AgeGroup),
		Gender:    domain.Gender(input.Gender),
		SkinType:  domain.SkinType(input.SkinType),
		UpdatedAt: time.Now(),
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
