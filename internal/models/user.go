package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Email is the actor identity compared against group admin emails.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address, stored lower-cased and unique.
	Email string

	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// EmailVerifiedAt is the Unix time the user proved they own Email, or 0.
	// Only verified users get session tokens, so an unverified account can
	// never act as an admin email.
	EmailVerifiedAt int64

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Verified reports whether the user has confirmed their email.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt > 0
}

// NormalizeEmail trims and lower-cases an email for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
