package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pitchside/backend/services"
)

// BcryptPasswordHasher implements services.PasswordHasher using bcrypt.
type BcryptPasswordHasher struct {
	Cost int
}

// NewBcryptPasswordHasher creates a new BcryptPasswordHasher. Cost defaults
// to bcrypt.DefaultCost when non-positive.
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{Cost: cost}
}

// Hash generates a bcrypt hash for the given password. Plaintext never leaves
// this call.
func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash generation failed: %w", err)
	}
	return string(hashed), nil
}

// Verify compares a bcrypt hash with its possible plaintext equivalent.
// Returns nil on match.
func (h *BcryptPasswordHasher) Verify(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

var _ services.PasswordHasher = (*BcryptPasswordHasher)(nil)
