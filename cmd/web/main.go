package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/myrjola/fitroutine/internal/envstruct"
	"github.com/myrjola/fitroutine/internal/errors"
	"github.com/myrjola/fitroutine/internal/flightrecorder"
	"github.com/myrjola/fitroutine/internal/logging"
	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/sqlite"
	"github.com/myrjola/fitroutine/internal/workout"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	templateFS     fs.FS
	workoutService *workout.Service
	secureCookies  bool
	// flightRecorder is nil when traces are not captured.
	flightRecorder *flightrecorder.Recorder
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITROUTINE_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITROUTINE_SQLITE_URL" envDefault:"./fitroutine.sqlite3"`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"FITROUTINE_TEMPLATE_PATH" envDefault:""`
	// CatalogPath optionally replaces the built-in exercise catalog with a YAML file of the same format.
	CatalogPath string `env:"FITROUTINE_CATALOG_PATH" envDefault:""`
	// HistoryLimit is how many generated routines are kept per profile.
	HistoryLimit int `env:"FITROUTINE_HISTORY_LIMIT" envDefault:"10"`
	// SecureCookies marks cookies Secure. Disable only when serving plain HTTP outside localhost.
	SecureCookies bool `env:"FITROUTINE_SECURE_COOKIES" envDefault:"true"`
	// TracesDirectory enables the flight recorder. Requests that time out write an execution trace there.
	TracesDirectory string `env:"FITROUTINE_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return errors.Wrap(err, "load catalog", slog.String("path", cfg.CatalogPath))
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(context.WithoutCancel(ctx), slog.LevelError, "failed to close db",
				errors.SlogError(errors.Wrap(closeErr, "close db")))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	app := application{
		logger:         logger,
		sessionManager: initializeSessionManager(db, cfg.SecureCookies),
		templateFS:     os.DirFS(htmlTemplatePath),
		workoutService: workout.NewService(db, logger, routine.NewGenerator(catalog), cfg.HistoryLimit),
		secureCookies:  cfg.SecureCookies,
		flightRecorder: nil,
	}

	if cfg.TracesDirectory != "" {
		if app.flightRecorder, err = startFlightRecorder(ctx, logger, cfg.TracesDirectory); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer app.flightRecorder.Stop(context.WithoutCancel(ctx))
	}

	var handler http.Handler
	if handler, err = app.routes(); err != nil {
		return errors.Wrap(err, "routes")
	}
	if err = app.configureAndStartServer(ctx, cfg.Addr, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func startFlightRecorder(ctx context.Context, logger *slog.Logger, dir string) (*flightrecorder.Recorder, error) {
	recorder, err := flightrecorder.New(flightrecorder.Config{
		Logger:          logger,
		TracesDirectory: dir,
		MinAge:          0,
		MaxBytes:        0,
		Cooldown:        0,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller.
	}
	if err = recorder.Start(ctx); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller.
	}
	return recorder, nil
}

// loadCatalog returns the built-in catalog unless path points to a YAML catalog.
func loadCatalog(path string) (*routine.Catalog, error) {
	if path == "" {
		return routine.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	catalog, err := routine.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

// The session only carries the anonymous profile, so it lives about as long as browser local storage would.
const (
	sessionCleanupInterval = 24 * time.Hour
	sessionLifetime        = 365 * 24 * time.Hour
	sessionIdleTimeout     = 90 * 24 * time.Hour
)

func initializeSessionManager(dbs *sqlite.Database, secure bool) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, sessionCleanupInterval)
	sessionManager.Lifetime = sessionLifetime
	sessionManager.IdleTimeout = sessionIdleTimeout
	sessionManager.Cookie.Name = "fitroutine_session"
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = secure
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
