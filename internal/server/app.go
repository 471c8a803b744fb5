// Package server wires configuration, storage, services and the HTTP layer
// into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/freezeraudit/internal/logging"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/dmitrijs2005/freezeraudit/internal/server/config"
	"github.com/dmitrijs2005/freezeraudit/internal/server/httpserver"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/freezeraudit/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpen is a seam for sql.Open so tests can inject sqlmock.
var sqlOpen = sql.Open

// OpenDB connects to PostgreSQL through the pgx stdlib driver and checks
// the connection.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// Services bundles the business services shared by the server and the
// admin CLI.
type Services struct {
	Users     *services.UserService
	Items     *services.ItemService
	Locations *services.LocationService
	Exports   *services.ExportService
}

func NewServices(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *Services {
	return &Services{
		Users:     services.NewUserService(db, m, auth.NewBcryptHasher()),
		Items:     services.NewItemService(db, m),
		Locations: services.NewLocationService(db, m),
		Exports:   services.NewExportService(db, m, cfg),
	}
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services *Services
	guard    *auth.Guard
}

// NewApp opens the database, applies pending migrations and builds the
// services. The caller owns the returned App and must Close it.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, err := OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	svc := NewServices(db, m, c)
	store := auth.NewStore(c.SessionSecret, c.IsProduction())
	guard := auth.NewGuard(store, svc.Users, c.RememberMeDuration)

	return &App{config: c, logger: l, db: db, services: svc, guard: guard}, nil
}

// Handler builds the gin router serving every page and form action.
func (app *App) Handler() http.Handler {
	policy := auth.UsernamePolicy{Allowed: app.config.AllowedUsernames, Prefix: app.config.UsernamePrefix}

	h := httpserver.NewHandlers(app.guard, httpserver.Services{
		Users:     app.services.Users,
		Items:     app.services.Items,
		Locations: app.services.Locations,
		Exports:   app.services.Exports,
	}, policy, app.logger, app.config.HealthcheckTimeout)

	return httpserver.NewRouter(h, app.logger)
}

func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.Handler(), app.config.ShutdownTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run serves HTTP until ctx is cancelled or the process gets a stop signal.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
}
