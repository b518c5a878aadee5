// Package credentials hashes and verifies account passwords with bcrypt.
// Hashes are one-way; the plaintext is never stored or logged.
package credentials

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/annagruz/taskvault/internal/common"
)

// MinPasswordLength is the minimum accepted password length in runes.
const MinPasswordLength = 7

// DefaultCost keeps a single verification in the tens of milliseconds on
// current hardware.
const DefaultCost = 10

// Hasher hashes and verifies passwords. Both operations are pure functions
// over their inputs.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash validates the plaintext and returns its salted bcrypt hash.
// Too-short passwords fail validation; passwords containing the literal
// substring "password" (case-insensitive) fail with ErrWeakCredential.
func (h *Hasher) Hash(plain string) (string, error) {
	if utf8.RuneCountInString(plain) < MinPasswordLength {
		return "", common.NewValidationError("password", "must be at least 7 characters")
	}
	if strings.Contains(strings.ToLower(plain), "password") {
		return "", common.ErrWeakCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		// bcrypt only hashes the first 72 bytes; longer input is a caller
		// mistake, not an internal failure.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.NewValidationError("password", "must be at most 72 bytes")
		}
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. A mismatch is not an error;
// only a malformed stored hash is, as ErrCorruptCredential.
func (h *Hasher) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, common.ErrCorruptCredential
}
