package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/thewell/wellcal/internal/config"
	"github.com/thewell/wellcal/internal/database"
	"github.com/thewell/wellcal/pkg/kvstore"
)

const limiterIdle = 10 * time.Minute

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg        config.Application
	deps       *Dependencies
	router     *mux.Router
	srv        *http.Server
	closeStore func()
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(store, cfg)

	// Middleware chain
	SetupMiddleware(r, deps)

	// Routes
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      WithCORS(r, cfg),
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv, closeStore: closeStore}, nil
}

// OpenStore opens the configured key-value backend and applies migrations where the backend has a schema.
// The returned function releases the backend.
func OpenStore(cfg config.Application) (kvstore.Store, func(), error) {
	switch cfg.Store.Backend {
	case "sqlite":
		db, err := database.OpenSQLite(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Infof("Using sqlite store at %s", cfg.Store.SQLite.Path)
		return kvstore.NewSQLiteStore(db), func() { db.Close() }, nil
	case "postgres":
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, nil, err
		}
		pool, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using postgres store at %s:%d", cfg.Database.Host, cfg.Database.Port)
		return kvstore.NewPostgresStore(pool), pool.Close, nil
	case "redis":
		client, err := database.OpenRedis(cfg.Store.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using redis store at %s", cfg.Store.Redis.Addr)
		return kvstore.NewRedisStore(client, cfg.Store.Redis.Prefix), func() { client.Close() }, nil
	case "memory", "":
		log.Warn("Using in-memory store, bookings are lost on restart")
		return kvstore.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.closeStore()

	if a.deps.RateLimiter != nil {
		go a.cleanupLimiter(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	a.deps.LiveHub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.srv.Shutdown(shutdownCtx)
}

func (a *Application) cleanupLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.deps.RateLimiter.Cleanup(limiterIdle); removed > 0 {
				log.Debugf("rate limiter forgot %d idle clients", removed)
			}
		}
	}
}
