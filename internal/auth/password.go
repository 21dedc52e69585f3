// Package auth provides password hashing and bearer token utilities.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password policy.
const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6

	// DefaultBcryptCost is used when configuration supplies no cost.
	DefaultBcryptCost = 10
)

// HashPassword creates a bcrypt hash of the given password.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
// bcrypt's comparison is constant-time over the derived key.
func VerifyPassword(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
