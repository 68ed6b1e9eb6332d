// Package server initializes and runs the application: it opens the database,
// applies migrations, wires the services, and starts the HTTP server with
// graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vmakarenko/contactvault/internal/logging"
	"github.com/vmakarenko/contactvault/internal/server/auth"
	"github.com/vmakarenko/contactvault/internal/server/config"
	"github.com/vmakarenko/contactvault/internal/server/httpapi"
	"github.com/vmakarenko/contactvault/internal/server/services"

	"github.com/vmakarenko/contactvault/internal/server/repositories/repomanager"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tm, err := auth.NewTokenManager(
		cfg.SecretKey,
		cfg.SigningAlgorithm,
		cfg.AccessTokenValidityDuration,
		cfg.RefreshTokenValidityDuration,
	)
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	as := services.NewAuthService(db, rm, tm, logger)
	cs := services.NewContactService(db, rm, logger)
	ps := services.NewProfileService(db, rm, cfg, logger)

	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, db, as, cs, ps, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
