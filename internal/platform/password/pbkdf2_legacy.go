package password

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

// ASP.NET Core Identity hash layouts.
const (
	identityV2Marker byte = 0x00
	identityV3Marker byte = 0x01

	identityV2Iterations = 1000
	identityV2SaltLen    = 16
	identityV2SubkeyLen  = 32

	identityV3HeaderLen = 13
	minLegacySaltLen    = 16
	minLegacySubkeyLen  = 16
	maxLegacyIterations = 10_000_000
)

// LegacyPBKDF2 verifies base64 PBKDF2 hashes written by ASP.NET Core Identity's PasswordHasher.
//
// Version 3 layout: 0x01 | prf (uint32 BE) | iterations (uint32 BE) | salt length (uint32 BE) | salt | subkey.
// Version 2 layout: 0x00 | salt (16 bytes) | subkey (32 bytes), PBKDF2-HMAC-SHA1 with 1000 iterations.
//
// It never produces new hashes.
type LegacyPBKDF2 struct{}

// Hash always fails; imported records are re-hashed with the primary algorithm on password update.
func (LegacyPBKDF2) Hash(string) (string, error) {
	return "", ErrHashingNotSupported
}

// Compare checks password against an ASP.NET Core Identity hash.
func (LegacyPBKDF2) Compare(encodedHash, password string) Result {
	raw, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil || len(raw) == 0 {
		return Invalid
	}

	switch raw[0] {
	case identityV2Marker:
		if len(raw) != 1+identityV2SaltLen+identityV2SubkeyLen {
			return Invalid
		}
		salt := raw[1 : 1+identityV2SaltLen]
		subkey := raw[1+identityV2SaltLen:]
		return compareDerived(password, salt, identityV2Iterations, subkey, sha1.New)

	case identityV3Marker:
		if len(raw) < identityV3HeaderLen {
			return Invalid
		}
		prf := binary.BigEndian.Uint32(raw[1:5])
		iterations := binary.BigEndian.Uint32(raw[5:9])
		saltLen := binary.BigEndian.Uint32(raw[9:13])

		newHash := prfHash(prf)
		if newHash == nil || iterations == 0 || iterations > maxLegacyIterations || saltLen < minLegacySaltLen {
			return Invalid
		}
		if uint64(len(raw)) < uint64(identityV3HeaderLen)+uint64(saltLen)+minLegacySubkeyLen {
			return Invalid
		}
		salt := raw[identityV3HeaderLen : identityV3HeaderLen+saltLen]
		subkey := raw[identityV3HeaderLen+saltLen:]
		return compareDerived(password, salt, int(iterations), subkey, newHash)

	default:
		return Invalid
	}
}

func compareDerived(password string, salt []byte, iterations int, subkey []byte, h func() hash.Hash) Result {
	derived := pbkdf2.Key([]byte(password), salt, iterations, len(subkey), h)
	if subtle.ConstantTimeCompare(derived, subkey) == 1 {
		return Match
	}
	return Mismatch
}

// prfHash maps the KeyDerivationPrf enum of ASP.NET Core to a hash constructor.
func prfHash(prf uint32) func() hash.Hash {
	switch prf {
	case 0:
		return sha1.New
	case 1:
		return sha256.New
	case 2:
		return sha512.New
	default:
		return nil
	}
}
