package auth

import (
	"context"
	"log/slog"

	"github.com/mmynk/latepizza/internal/models"
)

// VerificationSender delivers an email verification token to the address
// being claimed. Only the owner of that mailbox can complete registration.
type VerificationSender interface {
	SendVerification(ctx context.Context, user *models.User, token string) error
}

// LogSender writes verification tokens to the log instead of mailing them.
// It is the default for local and single-operator deployments, where the
// operator relays the token.
type LogSender struct {
	Logger *slog.Logger
}

// SendVerification logs the token for user.
func (s LogSender) SendVerification(ctx context.Context, user *models.User, token string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Email verification pending",
		"user_id", user.ID,
		"email", user.Email,
		"token", token,
	)
	return nil
}
