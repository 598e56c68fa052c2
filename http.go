package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-tokenauth/middleware/jwtware"
)

// PublicRoutes are the endpoints the gate never inspects: authentication
// happens there explicitly, not via bearer token.
var PublicRoutes = []string{"/register", "/authenticate", "/refresh"}

// RouteAuthenticator wires the token service into the fiber pipeline
type RouteAuthenticator struct {
	tokens TokenService
	cfg    Config
	Logger Logger
}

// NewHTTPAuthenticator returns the request-time authentication glue
func NewHTTPAuthenticator(tokens TokenService, cfg Config) *RouteAuthenticator {
	return &RouteAuthenticator{
		tokens: tokens,
		cfg:    cfg,
		Logger: defLogger{},
	}
}

func (a *RouteAuthenticator) WithLogger(l Logger) *RouteAuthenticator {
	if l != nil {
		a.Logger = l
	}
	return a
}

// AuthenticationGate builds the per-request middleware. Failures of any
// kind leave the request anonymous; the gate never writes a response.
func (a *RouteAuthenticator) AuthenticationGate() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Filter:     a.isPublicRoute,
		Validator:  tokenDecoder{tokens: a.tokens},
		ContextKey: a.cfg.GetContextKey(),
		AuthScheme: a.cfg.GetAuthScheme(),
		Logger:     a.Logger,
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			return WithIdentity(ctx, NewIdentity(claims.Subject(), claims.RoleList()))
		},
	})
}

// RequireAuthenticated guards protected handlers, answering anonymous
// callers with the fixed 401 body.
func (a *RouteAuthenticator) RequireAuthenticated() fiber.Handler {
	return jwtware.RequireAuthenticated(a.cfg.GetContextKey())
}

// CurrentIdentity resolves the request's identity, nil when anonymous
func (a *RouteAuthenticator) CurrentIdentity(c *fiber.Ctx) Identity {
	if identity, ok := IdentityFromContext(c.UserContext()); ok {
		return identity
	}
	if claims := jwtware.ClaimsFromContext(c, a.cfg.GetContextKey()); claims != nil {
		return NewIdentity(claims.Subject(), claims.RoleList())
	}
	return nil
}

func (a *RouteAuthenticator) isPublicRoute(c *fiber.Ctx) bool {
	path := c.Path()
	for _, route := range PublicRoutes {
		if path == route {
			return true
		}
	}
	return false
}

// tokenDecoder adapts TokenService to the jwtware validator contract
type tokenDecoder struct {
	tokens TokenService
}

func (d tokenDecoder) Decode(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := d.tokens.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
