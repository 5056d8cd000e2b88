package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2ID = "argon2id"

	minArgon2MemoryKB uint32 = 8 * 1024
	minArgon2SaltLen  uint32 = 16
	minArgon2KeyLen   uint32 = 16

	// Upper bounds applied when parsing stored hashes, so a crafted record cannot
	// make verification allocate or spin without limit.
	maxArgon2MemoryKB uint32 = 1024 * 1024
	maxArgon2Time     uint32 = 64
)

// Argon2Config holds argon2id cost parameters.
type Argon2Config struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Config follows the RFC 9106 second recommended option.
var DefaultArgon2Config = Argon2Config{
	Memory:      64 * 1024,
	Time:        3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2id hashes passwords with argon2id and encodes them in PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
type Argon2id struct {
	config Argon2Config
}

// NewArgon2id validates cfg and returns an argon2id Algorithm.
func NewArgon2id(cfg Argon2Config) (*Argon2id, error) {
	switch {
	case cfg.Memory < minArgon2MemoryKB || cfg.Memory > maxArgon2MemoryKB:
		return nil, fmt.Errorf("argon2 memory must be between %d and %d KiB", minArgon2MemoryKB, maxArgon2MemoryKB)
	case cfg.Time < 1 || cfg.Time > maxArgon2Time:
		return nil, fmt.Errorf("argon2 time must be between 1 and %d", maxArgon2Time)
	case cfg.Parallelism < 1:
		return nil, errors.New("argon2 parallelism must be at least 1")
	case cfg.SaltLength < minArgon2SaltLen:
		return nil, fmt.Errorf("argon2 salt length must be at least %d bytes", minArgon2SaltLen)
	case cfg.KeyLength < minArgon2KeyLen:
		return nil, fmt.Errorf("argon2 key length must be at least %d bytes", minArgon2KeyLen)
	}
	return &Argon2id{config: cfg}, nil
}

// Hash returns a PHC-encoded argon2id hash of password.
func (a *Argon2id) Hash(password string) (string, error) {
	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, a.config.Time, a.config.Memory, a.config.Parallelism, a.config.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Compare checks password against a PHC-encoded argon2id hash.
// Cost parameters are read from the hash, not from the receiver.
func (a *Argon2id) Compare(encodedHash, password string) Result {
	p, err := parseArgon2PHC(encodedHash)
	if err != nil {
		return Invalid
	}

	computed := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.parallelism, uint32(len(p.key)))
	if subtle.ConstantTimeCompare(computed, p.key) == 1 {
		return Match
	}
	return Mismatch
}

type argon2PHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parseArgon2PHC(encoded string) (*argon2PHC, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2ID {
		return nil, errors.New("invalid PHC format")
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, errors.New("unsupported argon2 version")
	}

	var p argon2PHC
	var memorySet, timeSet, parallelismSet bool
	for _, pair := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.New("invalid parameter entry")
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || uint32(n) < minArgon2MemoryKB || uint32(n) > maxArgon2MemoryKB {
				return nil, errors.New("invalid memory parameter")
			}
			p.memory, memorySet = uint32(n), true
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n < 1 || uint32(n) > maxArgon2Time {
				return nil, errors.New("invalid time parameter")
			}
			p.time, timeSet = uint32(n), true
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n < 1 {
				return nil, errors.New("invalid parallelism parameter")
			}
			p.parallelism, parallelismSet = uint8(n), true
		default:
			return nil, errors.New("unknown parameter")
		}
	}
	if !memorySet || !timeSet || !parallelismSet {
		return nil, errors.New("missing parameter")
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || uint32(len(p.salt)) < minArgon2SaltLen {
		return nil, errors.New("invalid salt")
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || uint32(len(p.key)) < minArgon2KeyLen {
		return nil, errors.New("invalid key")
	}
	return &p, nil
}
