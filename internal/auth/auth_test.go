package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/latepizza/internal/models"
	"github.com/mmynk/latepizza/internal/storage/memory"
)

func newTestAuthenticator() *PasswordAuthenticator {
	return NewPasswordAuthenticator(memory.New()).WithCost(bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()

	user, err := a.Register(ctx, " Alex@Example.com ", "Alex Doe", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alex@example.com" {
		t.Errorf("Email = %q, want lower-cased", user.Email)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}

	if user.Verified() {
		t.Error("new account is verified")
	}
	if _, err := a.Authenticate(ctx, "alex@example.com", "correct horse"); !errors.Is(err, ErrEmailNotVerified) {
		t.Errorf("unverified login: expected ErrEmailNotVerified, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "alex@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unverified wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	verified, err := a.VerifyEmail(ctx, user.ID)
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if !verified.Verified() {
		t.Error("VerifyEmail returned an unverified user")
	}
	again, err := a.VerifyEmail(ctx, user.ID)
	if err != nil || again.EmailVerifiedAt != verified.EmailVerifiedAt {
		t.Errorf("second VerifyEmail = %+v, %v", again, err)
	}
	if _, err := a.VerifyEmail(ctx, "missing"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("VerifyEmail(missing): expected ErrUnknownUser, got %v", err)
	}

	got, err := a.Authenticate(ctx, "ALEX@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate returned user %s, want %s", got.ID, user.ID)
	}

	if _, err := a.Authenticate(ctx, "alex@example.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	looked, err := a.Lookup(ctx, user.ID)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if looked.DisplayName != "Alex Doe" {
		t.Errorf("DisplayName = %q, want %q", looked.DisplayName, "Alex Doe")
	}
	if _, err := a.Lookup(ctx, "missing"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator()
	if _, err := a.Register(ctx, "taken@example.com", "First", "password1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		display  string
		password string
		want     error
	}{
		{"weak password", "new@example.com", "New", "short", ErrWeakPassword},
		{"bad email", "not-an-email", "New", "password1", ErrInvalidEmail},
		{"empty name", "new@example.com", " ", "password1", ErrMissingName},
		{"duplicate", "TAKEN@example.com", "Second", "password1", ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, tt.display, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "alex@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "alex@example.com" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := NewJWTManager("other-secret", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: expected ErrInvalidToken, got %v", err)
	}
	if _, err := m.Validate(token[:len(token)-2]); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("truncated token: expected ErrInvalidToken, got %v", err)
	}
	if _, err := m.Validate(strings.Repeat("x", 20)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Generate(&models.User{ID: "u1", Email: "alex@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	m.now = time.Now
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTManager_AudiencesDoNotMix(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour).WithVerificationDuration(time.Minute)
	user := &models.User{ID: "u1", Email: "alex@example.com"}

	session, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	verify, err := m.GenerateVerification(user)
	if err != nil {
		t.Fatalf("GenerateVerification failed: %v", err)
	}

	claims, err := m.ValidateVerification(verify)
	if err != nil {
		t.Fatalf("ValidateVerification failed: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", claims.UserID)
	}

	if _, err := m.Validate(verify); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("verification token opened a session: %v", err)
	}
	if _, err := m.ValidateVerification(session); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("session token verified an email: %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := m.ValidateVerification(verify); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected expired verification token to fail, got %v", err)
	}
}
