package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every rejected token.
var ErrInvalidToken = errors.New("invalid token")

// Validator checks tokens produced by an Issuer with the same key, issuer and audience.
type Validator struct {
	key    []byte
	parser *jwt.Parser
	now    func() time.Time
}

// NewValidator returns a Validator, or an error wrapping domain.ErrConfiguration.
func NewValidator(s Settings, opts ...Option) (*Validator, error) {
	if err := s.Validate(false); err != nil {
		return nil, err
	}
	v := &Validator{key: s.Key, now: time.Now}
	for _, opt := range opts {
		opt(&v.now)
	}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
		jwt.WithAudience(s.Audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return v.now() }),
	)
	return v, nil
}

// Validate accepts a token only if the signature verifies, issuer and audience match
// and the current time lies within [iat, exp).
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
