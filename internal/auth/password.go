// ABOUTME: Password hashing and verification using bcrypt
// ABOUTME: Includes a dummy compare to keep login timing uniform for unknown emails

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a valid bcrypt hash of a throwaway string, used for
// timing-safe comparison when no user matched the login identifier.
// This prevents timing attacks that could enumerate registered emails.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword hashes a plaintext password with bcrypt at default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareDummy burns the same bcrypt work as a real comparison.
// Call it on login paths where the user record was not found.
func CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
