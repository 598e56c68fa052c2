package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// EnvConfig is the process configuration, loaded from the environment. The
// signing secret has no default: a process without one must fail at startup,
// never at request time.
type EnvConfig struct {
	SigningSecret   string        `env:"AUTH_SIGNING_SECRET,required,notEmpty"`
	Issuer          string        `env:"AUTH_ISSUER" envDefault:"go-tokenauth"`
	AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"600s"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"720h"`
	ContextKey      string        `env:"AUTH_CONTEXT_KEY" envDefault:"identity"`
	AuthScheme      string        `env:"AUTH_SCHEME" envDefault:"Bearer"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseDSN     string        `env:"DATABASE_DSN" envDefault:"file:accounts.db?cache=shared"`
	BcryptCost      int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig reads configuration from the environment
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load configuration")
	}
	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningSecret
}

func (c *EnvConfig) GetIssuer() string {
	return c.Issuer
}

func (c *EnvConfig) GetAccessTokenTTL() time.Duration {
	return c.AccessTokenTTL
}

func (c *EnvConfig) GetRefreshTokenTTL() time.Duration {
	return c.RefreshTokenTTL
}

func (c *EnvConfig) GetContextKey() string {
	return c.ContextKey
}

func (c *EnvConfig) GetAuthScheme() string {
	return c.AuthScheme
}
