package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/latepizza/internal/models"
)

// Issuer is stamped into every token and required on validation.
const Issuer = "latepizza"

// Token audiences. A verification token never opens a session and a session
// token never verifies an email.
const (
	AudienceSession     = "session"
	AudienceVerifyEmail = "verify-email"
)

// DefaultVerificationDuration is how long an email verification link stays valid.
const DefaultVerificationDuration = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey      []byte
	tokenDuration  time.Duration
	verifyDuration time.Duration
	now            func() time.Time
}

// Claims represents the custom JWT claims for a user session. Email is the
// actor identity handed to the ledger.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
// secretKey should be a strong random string (e.g., 32 bytes).
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:      []byte(secretKey),
		tokenDuration:  tokenDuration,
		verifyDuration: DefaultVerificationDuration,
		now:            time.Now,
	}
}

// WithVerificationDuration returns a copy whose verification tokens live for d.
func (m *JWTManager) WithVerificationDuration(d time.Duration) *JWTManager {
	c := *m
	c.verifyDuration = d
	return &c
}

// Generate creates a new session token for the given user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	return m.sign(user, AudienceSession, m.tokenDuration)
}

// GenerateVerification creates a token proving whoever holds it received
// mail at the user's address.
func (m *JWTManager) GenerateVerification(user *models.User) (string, error) {
	return m.sign(user, AudienceVerifyEmail, m.verifyDuration)
}

func (m *JWTManager) sign(user *models.User, audience string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a session token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	return m.parse(tokenString, AudienceSession)
}

// ValidateVerification parses an email verification token.
func (m *JWTManager) ValidateVerification(tokenString string) (*Claims, error) {
	return m.parse(tokenString, AudienceVerifyEmail)
}

func (m *JWTManager) parse(tokenString, audience string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
