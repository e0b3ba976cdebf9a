package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/config"
	"github.com/rootlinehq/rootline/server"
	"github.com/rootlinehq/rootline/store"
)

func main() {
	logger := auth.DefaultLogger()

	if err := run(logger); err != nil {
		logger.Error("fatal: %v", err)
		os.Exit(1)
	}
}

func run(logger auth.Logger) error {
	cfg := config.New()

	if cfg.SigningKey == "" {
		logger.Warn("ROOTLINE_SIGNING_KEY is empty, tokens will not survive restarts")
		cfg.SigningKey = auth.RandomPasswordHash()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := store.RunMigrations(ctx, sqldb); err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	repo := store.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return err
	}

	recorder := store.NewRecorder(repo.AuditEntries()).WithLogger(logger)
	provider := store.NewIdentityProvider(repo.Users()).WithLogger(logger)

	auther := auth.NewAuthenticator(provider, cfg).
		WithLogger(logger).
		WithActivitySink(recorder)

	srv := server.New(server.Options{
		Repo:             repo,
		Auther:           auther,
		Tokens:           auther.TokenService(),
		Recorder:         recorder,
		Logger:           logger,
		CookieTTL:        time.Duration(cfg.TokenTTLHours) * time.Hour,
		SecureCookies:    cfg.SecureCookies,
		Debug:            cfg.Debug,
		DeterministicIDs: cfg.DeterministicIDs,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
