package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds     = "invalid_credentials"
	TextCodeUsernameTaken    = "username_taken"
	TextCodeTokenExpired     = "token_expired"
	TextCodeTokenMalformed   = "token_malformed"
	TextCodeTokenUnsupported = "token_unsupported"
	TextCodeRefreshRejected  = "refresh_rejected"
	TextCodeValidationFailed = "validation_failed"
	TextCodeEmptyPassword    = "empty_password"
	TextCodeAccountNotFound  = "account_not_found"
)

// ErrMismatchedHashAndPassword covers unknown usernames and wrong passwords
// alike so callers cannot tell the two apart.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeForbidden)

// ErrUsernameTaken is returned when a case-insensitive username match exists.
var ErrUsernameTaken = errors.New("username already taken", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrTokenExpired marks a well formed, correctly signed token that has aged
// out. Kept distinct from ErrTokenMalformed so refresh flows and security
// logging can tell a trustworthy-but-old token from a forged one.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token's structure or signature cannot
// be parsed or verified.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenUnsupported is returned when a token uses a signing algorithm the
// codec does not recognize.
var ErrTokenUnsupported = errors.New("token signing method is unsupported", errors.CategoryAuth).
	WithTextCode(TextCodeTokenUnsupported).
	WithCode(errors.CodeUnauthorized)

// ErrRefreshRejected is returned when a token presented to the refresh flow
// lacks the refresh marker or no longer maps to an account.
var ErrRefreshRejected = errors.New("refresh token rejected", errors.CategoryAuth).
	WithTextCode(TextCodeRefreshRejected).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotFound is the store-level miss for username lookups.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString rejects empty plaintext passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) || hasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for unverifiable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) || hasTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// hasTextCode matches wrapped rich errors by text code. Sentinel identity is
// lost when the codec wraps a jwt source error, and rendered auth messages
// are masked, so neither errors.Is nor a message check can see these.
func hasTextCode(err error, textCode string) bool {
	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == textCode
}
