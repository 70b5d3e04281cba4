// Package auth establishes who the actor behind a request is. The ledger only
// ever sees the resulting email; it never looks at credentials or tokens.
package auth

import (
	"context"

	"github.com/mmynk/latepizza/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the transport layer.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// The email becomes the user's actor identity for group admin checks.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// It fails with ErrEmailNotVerified until VerifyEmail has run.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// VerifyEmail marks the user's email as owned. Repeating it is harmless.
	VerifyEmail(ctx context.Context, userID string) (*models.User, error)

	// Lookup returns a registered user by ID.
	Lookup(ctx context.Context, userID string) (*models.User, error)

	// LookupEmail returns a registered user by email.
	LookupEmail(ctx context.Context, email string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
