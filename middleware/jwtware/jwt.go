// Package jwtware is the per-request authentication gate. It extracts a
// bearer token, validates it, and binds the resulting claims to the request.
// The gate never rejects a request itself: any failure leaves the request
// anonymous and rejection, if any, happens in whatever protected handler
// runs later. RequireAuthenticated is that rejection point for handlers
// that do not accept anonymous callers.
package jwtware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is where validated claims land in fiber Locals
const DefaultContextKey = "identity"

// DefaultAuthScheme is the literal, case-sensitive bearer prefix
const DefaultAuthScheme = "Bearer"

// AuthClaims mirrors the claim surface of the auth package without an
// import cycle.
type AuthClaims interface {
	Subject() string
	RoleList() []string
	Expires() time.Time
}

// TokenValidator decodes a raw token into verified claims. Expiry is
// checked by the gate separately so the validator only vouches for the
// signature and structure.
type TokenValidator interface {
	Decode(tokenString string) (AuthClaims, error)
}

// Logger mirrors the auth package logger
type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

type Config struct {
	// Filter skips the gate entirely when it returns true, used for the
	// public register/authenticate/refresh endpoints.
	Filter func(*fiber.Ctx) bool

	// Validator is required
	Validator TokenValidator

	// ContextKey is the fiber Locals key for validated claims
	ContextKey string

	// AuthScheme is matched case-sensitively followed by a single space
	AuthScheme string

	// ContextEnricher propagates claims to the standard Go context after a
	// successful validation.
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context

	// Now overrides the expiry clock, used in tests
	Now func() time.Time

	Logger Logger
}

func (cfg *Config) setDefaults() {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	if cfg.Validator == nil {
		panic("jwtware: Config.Validator is required")
	}
}

// New builds the gate middleware. The request always proceeds; the only
// externally visible effect is whether claims get bound to the context.
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.setDefaults()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		// idempotent against double invocation
		if c.Locals(cfg.ContextKey) != nil {
			return c.Next()
		}

		raw, ok := extractBearerToken(c, cfg.AuthScheme)
		if !ok {
			cfg.Logger.Debug("authorization header missing or malformed, proceeding anonymous")
			return c.Next()
		}

		claims, err := cfg.Validator.Decode(raw)
		if err != nil {
			cfg.Logger.Warn("token rejected, proceeding anonymous", "error", err)
			return c.Next()
		}

		if expired(claims, cfg.Now()) {
			cfg.Logger.Warn("token expired, proceeding anonymous", "subject", claims.Subject())
			return c.Next()
		}

		c.Locals(cfg.ContextKey, claims)
		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return c.Next()
	}
}

// RequireAuthenticated rejects anonymous requests with the fixed 401 body.
// Place it after the gate on routes that demand an authenticated caller.
func RequireAuthenticated(contextKey string) fiber.Handler {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	return func(c *fiber.Ctx) error {
		if c.Locals(contextKey) != nil {
			return c.Next()
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   fiber.StatusUnauthorized,
			"status":  "Unauthorized",
			"message": "You are unauthorized!",
		})
	}
}

// ClaimsFromContext returns the claims bound by the gate, nil when the
// request is anonymous.
func ClaimsFromContext(c *fiber.Ctx, contextKey string) AuthClaims {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	claims, _ := c.Locals(contextKey).(AuthClaims)
	return claims
}

func extractBearerToken(c *fiber.Ctx, scheme string) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	prefix := scheme + " "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

func expired(claims AuthClaims, now time.Time) bool {
	exp := claims.Expires()
	return exp.IsZero() || exp.Before(now)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
