package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/latepizza/internal/auth"
	"github.com/mmynk/latepizza/internal/middleware"
	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	sender        auth.VerificationSender
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. Verification tokens
// for new accounts go out through sender.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, sender auth.VerificationSender, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		sender:        sender,
		logger:        logger,
	}
}

// Register creates a new, unverified account and sends a verification token
// to its email. A session token is issued only by VerifyEmail, so nobody can
// act as an address they cannot receive mail at.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			s.logger.Warn("Registration rejected", "email", req.Msg.Email, "error", err)
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrMissingName):
			s.logger.Warn("Registration rejected", "email", req.Msg.Email, "error", err)
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered, awaiting verification", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.RegisterResponse{User: toAPIUser(user)}), nil
}

// VerifyEmail redeems a verification token and opens a session.
func (s *AuthService) VerifyEmail(ctx context.Context, req *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.AuthResponse], error) {
	claims, err := s.jwtManager.ValidateVerification(req.Msg.Token)
	if err != nil {
		s.logger.Warn("Email verification rejected", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	user, err := s.authenticator.VerifyEmail(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		s.logger.Error("Email verification failed", "user_id", claims.UserID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user.Email != claims.Email {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidToken)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Email verified", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.AuthResponse{User: toAPIUser(user), Token: token}), nil
}

// ResendVerification sends a fresh verification token to an unverified
// account. It answers the same way whether or not the email is registered.
func (s *AuthService) ResendVerification(ctx context.Context, req *connect.Request[api.ResendVerificationRequest]) (*connect.Response[api.ResendVerificationResponse], error) {
	user, err := s.authenticator.LookupEmail(ctx, req.Msg.Email)
	switch {
	case errors.Is(err, auth.ErrUnknownUser):
		s.logger.Info("Verification resend for unknown email", "email", req.Msg.Email)
	case err != nil:
		s.logger.Error("Verification resend failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	case !user.Verified():
		if err := s.sendVerification(ctx, user); err != nil {
			return nil, err
		}
	}
	return connect.NewResponse(&api.ResendVerificationResponse{}), nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.jwtManager.GenerateVerification(user)
	if err != nil {
		s.logger.Error("Failed to generate verification token", "user_id", user.ID, "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
	if err := s.sender.SendVerification(ctx, user, token); err != nil {
		s.logger.Error("Failed to send verification", "user_id", user.ID, "error", err)
		return connect.NewError(connect.CodeUnavailable, err)
	}
	return nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailNotVerified) {
			s.logger.Warn("Login before verification", "email", req.Msg.Email)
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		}
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Error("Login failed", "email", req.Msg.Email, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.AuthResponse{User: toAPIUser(user), Token: token}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.authenticator.Lookup(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) {
			// Token outlived its account.
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
		}
		s.logger.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
