// Package server initializes and runs the file service. It opens the
// database, applies migrations, wires repositories, the optional blob store,
// and the HTTP router, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/walletvault/internal/logging"
	"github.com/dmitrijs2005/walletvault/internal/server/blobstore"
	"github.com/dmitrijs2005/walletvault/internal/server/config"
	"github.com/dmitrijs2005/walletvault/internal/server/httpapi"
	"github.com/dmitrijs2005/walletvault/internal/server/migrations"
	"github.com/dmitrijs2005/walletvault/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *httpapi.Router
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	zl, err := logging.NewZapProduction()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	logger := logging.NewZapLogger(zl)

	db, repos, err := openDatabase(ctx, c)
	if err != nil {
		return nil, err
	}

	var blobs blobstore.Store
	if c.StorageBackend == "s3" {
		s3Store, err := blobstore.NewS3Store(ctx, blobstore.S3Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing blob store: %w", err)
		}
		blobs = s3Store
	}

	svc := services.NewFileService(db, repos, blobs, logger)
	router := httpapi.NewRouter(logger, svc)

	return &App{config: c, logger: logger, db: db, router: router}, nil
}

// openDatabase opens the configured backend and applies migrations.
func openDatabase(ctx context.Context, c *config.Config) (*sql.DB, services.RepoFactory, error) {
	var (
		db      *sql.DB
		dialect string
		err     error
	)

	switch c.DatabaseDriver {
	case "sqlite":
		db, err = sql.Open("sqlite", c.DatabaseDSN)
		dialect = "sqlite3"
	case "postgres":
		db, err = sql.Open("pgx", c.DatabaseDSN)
		dialect = "postgres"
	default:
		return nil, services.RepoFactory{}, fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}
	if err != nil {
		return nil, services.RepoFactory{}, fmt.Errorf("opening database: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		db.Close()
		return nil, services.RepoFactory{}, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, services.RepoFactory{}, fmt.Errorf("applying migrations: %w", err)
	}

	if c.DatabaseDriver == "postgres" {
		return db, services.PostgresRepos(), nil
	}
	return db, services.SQLiteRepos(), nil
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
	defer app.db.Close()

	app.logger.Info(ctx, "starting file service",
		"addr", app.config.EndpointAddr,
		"driver", app.config.DatabaseDriver,
		"storage", app.config.StorageBackend,
	)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}
}
