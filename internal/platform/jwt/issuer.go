// Package jwtmw issues and validates the HS256 bearer tokens of the auth service.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"auth_backend/internal/feature/auth/domain"
)

// MinKeyBytes is the minimum signing key length (256 bits).
const MinKeyBytes = 32

// Claims carried by every issued token.
// The username travels in the standard "sub" claim.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Settings configures token signing and validation.
type Settings struct {
	Key      []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Validate reports missing or malformed settings as domain.ErrConfiguration.
// TTL is only required when issuing.
func (s Settings) Validate(issuing bool) error {
	switch {
	case len(s.Key) < MinKeyBytes:
		return fmt.Errorf("%w: signing key must be at least %d bytes, got %d", domain.ErrConfiguration, MinKeyBytes, len(s.Key))
	case s.Issuer == "":
		return fmt.Errorf("%w: issuer is required", domain.ErrConfiguration)
	case s.Audience == "":
		return fmt.Errorf("%w: audience is required", domain.ErrConfiguration)
	case issuing && s.TTL <= 0:
		return fmt.Errorf("%w: token ttl must be positive, got %v", domain.ErrConfiguration, s.TTL)
	}
	return nil
}

// Issuer signs tokens for authenticated users.
type Issuer struct {
	settings Settings
	now      func() time.Time
}

// Option customizes an Issuer or a Validator.
type Option func(*func() time.Time)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(clock *func() time.Time) {
		*clock = now
	}
}

// NewIssuer returns an Issuer, or an error wrapping domain.ErrConfiguration.
func NewIssuer(s Settings, opts ...Option) (*Issuer, error) {
	if err := s.Validate(true); err != nil {
		return nil, err
	}
	i := &Issuer{settings: s, now: time.Now}
	for _, opt := range opts {
		opt(&i.now)
	}
	return i, nil
}

// IssueToken creates a signed token asserting username and email.
func (i *Issuer) IssueToken(username, email string) (string, error) {
	now := i.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			Issuer:    i.settings.Issuer,
			Audience:  jwt.ClaimStrings{i.settings.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.settings.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.settings.Key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
