package auth

import (
	"errors"

	"github.com/juliebook/juliebook-be/internal/apierr"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt hash of the plaintext password.
// The output differs between calls for the same input; VerifyPassword is the
// only way to check a candidate against it.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", apierr.Wrap(apierr.KindInternal, "failed to hash password", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks plaintext against a stored bcrypt hash. A mismatch is
// (false, nil); an error is returned only when the stored hash itself is
// malformed, which signals data corruption rather than a user mistake.
func VerifyPassword(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, apierr.Wrap(apierr.KindInternal, "malformed password hash", err)
}
