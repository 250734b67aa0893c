package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/api"
	"github.com/payments-portal/portal/internal/api/handler"
	"github.com/payments-portal/portal/internal/api/view"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/core/service"
	"github.com/payments-portal/portal/internal/infrastructure/apiclient"
	"github.com/payments-portal/portal/internal/infrastructure/backend"
	"github.com/payments-portal/portal/internal/infrastructure/credstore"
	redisstore "github.com/payments-portal/portal/internal/infrastructure/db/redis"
	"github.com/payments-portal/portal/internal/infrastructure/db/sqlite"
	"github.com/payments-portal/portal/internal/pkg/config"
	"github.com/payments-portal/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "portal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})
	displayAppName(cfg.AppName)

	// 1. Credential store
	store, ping, closeStore, err := openCredentialStore(ctx, cfg, logger.For("credstore"))
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. Session manager and the request client that reads its token
	var manager *service.SessionManager
	apiLog := logger.For("apiclient")
	client, err := apiclient.New(cfg.API.BaseURL, apiclient.TokenSourceFunc(func() string {
		return manager.CurrentToken()
	}), apiclient.Options{Timeout: cfg.API.Timeout, Logger: &apiLog})
	if err != nil {
		return err
	}
	gateway := backend.NewGateway(client)
	manager = service.NewSessionManager(gateway, store, logger.For("session"))
	go manager.Hydrate(ctx)

	// 3. Pages
	renderer, err := view.New(cfg.AppName)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	e := api.NewRouter(api.Deps{
		Routes:   cfg.Routes,
		Sessions: manager,
		Payments: gateway,
		Renderer: renderer,
		Checks: map[string]handler.Check{
			"session":          hydratedCheck(manager),
			"credential_store": ping,
		},
		Log: logger.For("http"),
	})

	// 4. Serve until a stop signal arrives
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("api_base", client.BaseURL()).
			Str("credential_store", cfg.Credentials.Store).
			Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// openCredentialStore builds the store selected by CREDENTIAL_STORE together
// with its readiness check and a close function.
func openCredentialStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CredentialStore, handler.Check, func(), error) {
	switch cfg.Credentials.Store {
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		store := redisstore.NewCredentialStore(rdb, cfg.Credentials.KeyPrefix, log)
		return store, store.Ping, func() { _ = rdb.Close() }, nil

	case config.StoreMemory:
		store := credstore.NewMemoryStore()
		return store, func(context.Context) error { return nil }, func() {}, nil

	default:
		db, err := sqlite.Open(cfg.Credentials.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		store := credstore.NewSQLiteStore(db, log)
		if err := store.Init(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return store, store.Ping, func() { _ = db.Close() }, nil
	}
}

// hydratedCheck reports not ready until the stored session has been read.
func hydratedCheck(m *service.SessionManager) handler.Check {
	return func(context.Context) error {
		select {
		case <-m.Hydrated():
			return nil
		default:
			return errors.New("session is still hydrating")
		}
	}
}

func displayAppName(name string) {
	banner := figure.NewFigure(name, "cybermedium", true)
	banner.Print()
	fmt.Println()
}
