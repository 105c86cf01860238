package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the login identity, keyed by a UUID referenced everywhere else
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"` // nil for passwordless (magic link) accounts
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Profile is 1:1 with Account
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	AvatarURL *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// AccessStatus is what every gate needs to know about the caller
type AccessStatus struct {
	IsAdmin         bool           `json:"isAdmin"`
	ApprovalStatus  ApprovalStatus `json:"approvalStatus"`
	HasProfileSetup bool           `json:"hasProfileSetup"`
}

// IsApproved is a convenience for gates
func (s AccessStatus) IsApproved() bool {
	return s.ApprovalStatus == StatusApproved
}

// RefreshToken is an opaque, revocable API refresh token
type RefreshToken struct {
	Token      string    `db:"token"`
	UserID     uuid.UUID `db:"user_id"`
	ExpiryDate time.Time `db:"expiry_date"`
	IsRevoked  bool      `db:"is_revoked"`
	CreatedAt  time.Time `db:"created_at"`
}

// LoginToken is a single-use magic link token
type LoginToken struct {
	Token        string     `db:"token"`
	UserID       uuid.UUID  `db:"user_id"`
	RedirectPath string     `db:"redirect_path"`
	ExpiresAt    time.Time  `db:"expires_at"`
	UsedAt       *time.Time `db:"used_at"`
}
