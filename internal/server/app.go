// Package server wires configuration, storage, services and the gRPC
// transport together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/pymax/internal/logging"
	"github.com/dmitrijs2005/pymax/internal/server/auth"
	"github.com/dmitrijs2005/pymax/internal/server/config"
	"github.com/dmitrijs2005/pymax/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pymax/internal/server/services"

	gs "github.com/dmitrijs2005/pymax/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

// openDB is a seam for tests.
var openDB = sql.Open

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSON(os.Stdout, slog.LevelInfo)
	}

	db, err := openDB(c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDriver == config.DriverSQLite {
		// :memory: databases live per connection
		db.SetMaxOpenConns(1)
	}

	m, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey),
		auth.WithMaxAges(c.ConfirmationTokenMaxAge, c.SessionTokenValidityDuration))
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	svc := gs.Services{
		Accounts: services.NewAccountService(db, m, tokens, hasher, time.Now, logger),
		Ledger:   services.NewLedgerService(db, m),
		Reports:  services.NewReportService(db, m, c.TaxRate),
		Exports:  services.NewExportService(db, m, c),
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, c.RequireSession),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context) error {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.startGRPCServer(gctx)
	})
	runErr := g.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")

	return runErr
}
