package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the decoded payload of a signed token
type AuthClaims interface {
	Subject() string
	RoleList() []string
	HasRole(role string) bool
	IsRefresh() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete claim set embedded in issued tokens. Access
// tokens carry Roles; refresh tokens carry only the subject plus the
// Refresh marker. Claims are produced by the token service and trusted only
// after signature verification.
type JWTClaims struct {
	jwt.RegisteredClaims
	Roles   []string `json:"roles,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, the account username
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// RoleList returns the roles embedded in the token. Refresh tokens carry
// none; their role set is re-derived from the account on use.
func (c *JWTClaims) RoleList() []string {
	return c.Roles
}

// HasRole checks if the claim set includes a specific role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsRefresh reports whether this token carries the refresh marker
func (c *JWTClaims) IsRefresh() bool {
	return c.Refresh
}

// Expires returns the expiry timestamp, zero when absent
func (c *JWTClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// IssuedAt returns the issue timestamp, zero when absent
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}
