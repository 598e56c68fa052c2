package auth

import (
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when none is configured.
// bcrypt embeds a random salt, so hashing the same password twice yields
// different digests that both verify.
const DefaultHashCost = bcrypt.DefaultCost

// HashPassword will generate a salted password hash
func HashPassword(password string) (string, error) {
	return hashPasswordWithCost(password, DefaultHashCost)
}

func hashPasswordWithCost(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password. A mismatch is reported as
// ErrMismatchedHashAndPassword, an expected outcome rather than a fault.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// BcryptHasher is the PasswordAuthenticator used by the account service.
// Cost tunes the adaptive work factor; zero means DefaultHashCost.
type BcryptHasher struct {
	Cost int
}

var _ PasswordAuthenticator = BcryptHasher{}

func (b BcryptHasher) HashPassword(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultHashCost
	}
	return hashPasswordWithCost(password, cost)
}

func (b BcryptHasher) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}
