package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken represents a stored, revocable refresh token
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// Requester identifies the caller of a service operation. Services take it
// explicitly instead of reading auth state from ambient request context.
type Requester struct {
	ID      uuid.UUID
	IsStaff bool
}

// Profile holds a user's demographic attributes. Fields are either empty or
// drawn from the closed enumerations; they are snapshotted onto reviews at
// write time.
type Profile struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	AgeGroup  AgeGroup  `json:"age_group" db:"age_group"`
	Gender    Gender    `json:"gender" db:"gender"`
	SkinType  SkinType  `json:"skin_type" db:"skin_type"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
