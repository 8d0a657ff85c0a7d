package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyDigest is compared against when no real digest is available so that
// credential checks take roughly the same time either way.
var dummyDigest = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")

// PasswordHasher produces and checks salted bcrypt digests.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted digest of the plaintext. Two calls with the same
// plaintext yield different digests.
func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the digest. Malformed digests
// simply fail verification.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// CompareDummy burns a bcrypt comparison against a fixed digest. Callers use
// it on the unknown-user path so login timing does not reveal whether the
// account exists.
func (h *PasswordHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
}
