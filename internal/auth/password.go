package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password schemes. The store predates this service and holds unsalted
// SHA-256 hex digests; that format stays the default so existing rows keep
// authenticating. New deployments can opt registrations into bcrypt.
const (
	SchemeLegacy = "legacy"
	SchemeBcrypt = "bcrypt"
)

// Hasher derives credential digests for new registrations.
type Hasher struct {
	scheme string
	cost   int
}

// NewHasher builds a hasher for the configured scheme. Unknown schemes fall
// back to legacy.
func NewHasher(scheme string, bcryptCost int) *Hasher {
	if scheme != SchemeBcrypt {
		scheme = SchemeLegacy
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Hasher{scheme: scheme, cost: bcryptCost}
}

// Hash derives the stored digest for a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	if h.scheme == SchemeBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if err != nil {
			return "", err
		}
		return string(hashed), nil
	}
	return LegacyDigest(password), nil
}

// LegacyDigest is the inherited unsalted single-round digest: hex-encoded
// SHA-256 over the UTF-8 password bytes.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Verify checks a plaintext password against a stored digest. The digest's
// own format decides the scheme, so stores holding a mix of legacy and
// bcrypt rows verify correctly regardless of the configured scheme.
func Verify(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return stored == LegacyDigest(password)
}
