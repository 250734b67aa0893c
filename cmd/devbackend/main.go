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

	"github.com/payments-portal/portal/internal/api/handler"
	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/core/service"
	"github.com/payments-portal/portal/internal/devbackend"
	"github.com/payments-portal/portal/internal/infrastructure/db/memory"
	mongostore "github.com/payments-portal/portal/internal/infrastructure/db/mongo"
	"github.com/payments-portal/portal/internal/infrastructure/queue"
	"github.com/payments-portal/portal/internal/pkg/config"
	"github.com/payments-portal/portal/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	importWorkers   = 4

	demoUserName     = "Jane Doe"
	demoUserEmail    = "jane.doe@example.com"
	demoUserPassword = "secret123"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "devbackend: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadDevBackend(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "devbackend",
	})
	banner := figure.NewFigure("devbackend", "cybermedium", true)
	banner.Print()
	fmt.Println()

	// 1. Accounts
	repo, checks, closeRepo, err := openAccounts(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()
	auth := service.NewAuthService(repo, cfg.JWTSecret, cfg.TokenTTL)
	if err := auth.Seed(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword, domain.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := auth.Seed(ctx, demoUserName, demoUserEmail, demoUserPassword, domain.RoleUser); err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	// 2. Ledger and import queue
	ledger := memory.NewLedger()
	importer := service.NewBatchImporter(ledger, logger.For("importer"))
	if err := seedLedger(ctx, importer); err != nil {
		return err
	}
	dispatcher := queue.NewDispatcher(importWorkers, importer, logger.For("queue"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	e := devbackend.NewRouter(devbackend.Deps{
		Auth:      auth,
		Ledger:    ledger,
		Intake:    importer,
		Queue:     dispatcher,
		JWTSecret: cfg.JWTSecret,
		Checks:    checks,
		Log:       logger.For("http"),
	})

	// 3. Serve until a stop signal arrives
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("user_store", cfg.UserStore).
			Str("admin", cfg.AdminEmail).
			Msg("development backend listening")
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
	return e.Shutdown(shutdownCtx)
}

// openAccounts builds the account repository selected by DEV_USER_STORE.
func openAccounts(ctx context.Context, cfg *config.DevBackendConfig) (ports.AuthRepository, map[string]handler.Check, func(), error) {
	if cfg.UserStore != "mongo" {
		return memory.NewAccountRepository(), map[string]handler.Check{}, func() {}, nil
	}

	conn, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, nil, err
	}
	repo := mongostore.NewAccountRepository(conn.DB)
	if err := repo.EnsureIndexes(ctx); err != nil {
		conn.Close()
		return nil, nil, nil, err
	}
	return repo, map[string]handler.Check{"mongo": conn.Ping}, conn.Close, nil
}

// seedLedger imports the sample file so the demo user has payments to see.
func seedLedger(ctx context.Context, importer *service.BatchImporter) error {
	_, job, err := importer.Open(ctx, service.SampleCSVName, []byte(demoCSV))
	if err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}
	if err := importer.Process(ctx, job); err != nil {
		return fmt.Errorf("seed ledger: %w", err)
	}
	return nil
}

const demoCSV = service.SampleCSV +
	"CUST0001003,Jane Doe,jane.doe@example.com,89.99,USD,REF-9K1L2M3N4P,03/10/2024 09:15\n" +
	"CUST0001004,Jane Doe,jane.doe@example.com,42.00,GBP,REF-5R6S7T8U9V,2024-03-12 16:45:00\n"
