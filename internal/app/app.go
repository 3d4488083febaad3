// Package app initializes and holds long-lived run services, acting as a
// dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/snapwalk/snapwalk/internal/config"
	"github.com/snapwalk/snapwalk/internal/logging"
)

// App holds the shared, long-lived services for one run: the logger, the
// SQLite handle (database mode only), and the optional metrics server. It is
// initialized once at startup and closed after the run, so no package-level
// connection state exists.
type App struct {
	logger     *zap.Logger
	db         *sqlx.DB
	metricsSrv *http.Server
}

// New initializes services from the validated configuration. It fails fast if
// the screenshot directory or the database cannot be opened.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := os.MkdirAll(cfg.Output.PicsDir, 0o750); err != nil {
		return nil, fmt.Errorf("create screenshot dir %s: %w", cfg.Output.PicsDir, err)
	}

	var db *sqlx.DB
	if cfg.Input.DB != "" {
		logger.Info("Opening SQLite database", zap.String("path", cfg.Input.DB))
		db, err = sqlx.ConnectContext(ctx, "sqlite3", cfg.Input.DB)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database %s: %w", cfg.Input.DB, err)
		}
	}

	a := &App{logger: logger, db: db}
	if cfg.Metrics.Addr != "" {
		a.metricsSrv = startMetricsServer(cfg.Metrics.Addr, logger)
	}
	return a, nil
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// DB returns the SQLite handle, or nil in CSV mode.
func (a *App) DB() *sqlx.DB {
	return a.db
}

// Close releases the database handle, stops the metrics server, and flushes
// the logger.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Error closing database", zap.Error(err))
		}
	}
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			a.logger.Warn("Error stopping metrics server", zap.Error(err))
		}
	}
	// Best effort: logging itself might be the thing failing.
	_ = a.logger.Sync()
}

func startMetricsServer(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("Starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
