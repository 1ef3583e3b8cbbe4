// Package password hashes and verifies user passwords.
//
// New hashes are always bcrypt. Accounts created before the bcrypt switch
// still carry an unsalted hex SHA-256 digest; Verify accepts those and reports
// that the caller should store a fresh bcrypt hash.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("password does not match")

// Hash returns the bcrypt hash of password.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify checks password against the stored hash. needsRehash is true when
// the match was made against a legacy SHA-256 digest.
func Verify(stored, password string) (needsRehash bool, err error) {
	const op = "password.Verify"

	if stored == "" {
		return false, fmt.Errorf("%s: %w", op, ErrMismatch)
	}

	if IsLegacy(stored) {
		sum := sha256.Sum256([]byte(password))
		got := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(stored))) != 1 {
			return false, fmt.Errorf("%s: %w", op, ErrMismatch)
		}
		return true, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, fmt.Errorf("%s: %w", op, ErrMismatch)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return false, nil
}

// IsLegacy reports whether stored looks like a hex SHA-256 digest.
func IsLegacy(stored string) bool {
	if len(stored) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(stored)
	return err == nil
}

// IsStrong requires 8+ characters with at least one letter and one digit.
func IsStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
