package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated caller. It is built
// fresh per request and never stored between requests.
type Identity interface {
	Username() string
	Roles() []string
	HasRole(role string) bool
}

// TokenService mints and validates signed tokens
type TokenService interface {
	IssueAccessToken(identity Identity) (string, error)
	IssueRefreshToken(username string) (string, error)
	Decode(tokenString string) (*JWTClaims, error)
	IsExpired(claims *JWTClaims) bool
}

// Accounts is the credential store contract the core consumes
type Accounts interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	ExistsByUsernameIgnoreCase(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, account *Account) (*Account, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetContextKey() string
	GetAuthScheme() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Print("[ERR] AUTH " + newline(logMessage(format, args...)))
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Print("[WRN] AUTH " + newline(logMessage(format, args...)))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Print("[INF] AUTH " + newline(logMessage(format, args...)))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Print("[DBG] AUTH " + newline(logMessage(format, args...)))
}

// logMessage accepts both printf formats and key-value pairs. Without verbs
// in the format, args are rendered as key=value attributes.
func logMessage(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	if strings.Contains(format, "%") {
		return fmt.Sprintf(format, args...)
	}

	var b strings.Builder
	b.WriteString(format)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	if len(args)%2 != 0 {
		fmt.Fprintf(&b, " %v", args[len(args)-1])
	}
	return b.String()
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
