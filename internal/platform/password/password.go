// Package password hashes and verifies user passwords.
//
// New hashes are produced by a single configured Algorithm (bcrypt or argon2id).
// Verification detects the format of the stored hash, so records hashed with any
// supported algorithm, including PBKDF2 hashes imported from ASP.NET Core Identity,
// keep working after the primary algorithm changes.
package password

import (
	"errors"
	"strings"
)

// Result is the outcome of comparing a password against an encoded hash.
type Result int

const (
	// Mismatch means the hash is well formed but the password does not match.
	Mismatch Result = iota
	// Match means the password matches the hash.
	Match
	// Invalid means the hash could not be parsed.
	Invalid
)

func (r Result) String() string {
	switch r {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	default:
		return "invalid"
	}
}

// ErrHashingNotSupported is returned by verify-only algorithms.
var ErrHashingNotSupported = errors.New("algorithm only supports verification")

// Algorithm is a single password hashing scheme.
type Algorithm interface {
	// Hash returns an encoded hash of password with a fresh random salt embedded.
	Hash(password string) (string, error)
	// Compare checks password against encodedHash in constant time with respect to the derived bytes.
	Compare(encodedHash, password string) Result
}

// Hasher hashes with a primary algorithm and verifies hashes of every supported format.
// It is safe for concurrent use.
type Hasher struct {
	primary Algorithm
	bcrypt  Algorithm
	argon2  Algorithm
	legacy  Algorithm
}

// New returns a Hasher that produces new hashes with primary.
func New(primary Algorithm) *Hasher {
	return &Hasher{
		primary: primary,
		bcrypt:  &Bcrypt{cost: DefaultBcryptCost},
		argon2:  &Argon2id{config: DefaultArgon2Config},
		legacy:  LegacyPBKDF2{},
	}
}

// Hash returns an encoded hash of password using the primary algorithm.
func (h *Hasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

// Compare detects the format of encodedHash and checks password against it.
// Empty or unrecognised hashes yield Invalid.
func (h *Hasher) Compare(encodedHash, password string) Result {
	switch {
	case encodedHash == "":
		return Invalid
	case isBcryptHash(encodedHash):
		return h.bcrypt.Compare(encodedHash, password)
	case strings.HasPrefix(encodedHash, "$"+argon2ID+"$"):
		return h.argon2.Compare(encodedHash, password)
	case strings.HasPrefix(encodedHash, "$"):
		return Invalid
	default:
		return h.legacy.Compare(encodedHash, password)
	}
}

// Verify reports whether password matches encodedHash.
func (h *Hasher) Verify(encodedHash, password string) bool {
	return h.Compare(encodedHash, password) == Match
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
