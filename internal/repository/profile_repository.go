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
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetOrCreate returns the user's profile, inserting an empty-valued one on
// first access. The upsert makes the get-or-create race-free: concurrent
// first accesses converge on the same row.
func (r *profileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, age_group, gender, skin_type, updated_at)
		VALUES ($1, '', '', '', $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = profiles.user_id
		RETURNING user_id, age_group, gender, skin_type, updated_at
	`

	profile := &domain.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID, time.Now()).Scan(
		&profile.UserID,
		&profile.AgeGroup,
		&profile.Gender,
		&profile.SkinType,
		&profile.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}

	return profile, nil
}

// Update overwrites the profile's demographic fields
func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET age_group = $2, gender = $3, skin_type = $4, updated_at = $5
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.AgeGroup,
		profile.Gender,
		profile.SkinType,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}
