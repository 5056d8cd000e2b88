package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 12

// bcryptMaxPasswordBytes is the number of password bytes bcrypt reads; the rest are ignored.
const bcryptMaxPasswordBytes = 72

// Bcrypt hashes passwords with bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt Algorithm with the given cost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash returns a bcrypt hash of password. bcrypt rejects passwords longer than 72 bytes.
func (b *Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks password against a bcrypt hash.
// Passwords longer than 72 bytes never match, since bcrypt would only compare their prefix.
func (b *Bcrypt) Compare(encodedHash, password string) Result {
	if len(password) > bcryptMaxPasswordBytes {
		if _, err := bcrypt.Cost([]byte(encodedHash)); err != nil {
			return Invalid
		}
		return Mismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return Match
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return Mismatch
	default:
		return Invalid
	}
}
