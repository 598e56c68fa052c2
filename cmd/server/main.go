package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	auth "github.com/goliatone/go-tokenauth"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := auth.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := auth.Migrate(ctx, db); err != nil {
		return err
	}

	tokens := auth.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetAccessTokenTTL(),
		cfg.GetRefreshTokenTTL(),
		cfg.GetIssuer(),
		nil,
	)

	service := auth.NewAccountService(
		auth.NewAccountsRepository(db),
		auth.BcryptHasher{Cost: cfg.BcryptCost},
		tokens,
	)

	routeAuth := auth.NewHTTPAuthenticator(tokens, cfg)
	controller := auth.NewAuthController(service)

	app := fiber.New(fiber.Config{
		AppName:               "go-tokenauth",
		DisableStartupMessage: false,
	})

	app.Use(recover.New())
	app.Use(routeAuth.AuthenticationGate())

	controller.RegisterRoutes(app)

	// minimal protected resource so the gate's binding is observable
	app.Get("/me", routeAuth.RequireAuthenticated(), func(c *fiber.Ctx) error {
		identity := routeAuth.CurrentIdentity(c)
		return c.JSON(fiber.Map{
			"username": identity.Username(),
			"roles":    identity.Roles(),
		})
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}
