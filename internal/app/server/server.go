// Package server wires configuration, storage, and the HTTP transport into a
// runnable application.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfhub/internal/domain/auth"
	"perfhub/internal/domain/employee"
	"perfhub/internal/domain/reports"
	"perfhub/internal/domain/review"
	"perfhub/internal/platform/config"
	"perfhub/internal/platform/db"
	authhandler "perfhub/internal/transport/http/handlers/auth"
	employeehandler "perfhub/internal/transport/http/handlers/employee"
	reportshandler "perfhub/internal/transport/http/handlers/reports"
	reviewhandler "perfhub/internal/transport/http/handlers/review"
	"perfhub/internal/transport/http/middleware"
	"perfhub/internal/transport/http/shared"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects to storage, runs migrations and seeding when enabled, and
// builds the router. Callers own the returned pool.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		slog.Warn("SESSION_SECRET not set, using a random secret; sessions will not survive restarts")
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	authService := auth.NewService(auth.NewStore(pool), cfg.SessionTTL)
	employeeService := employee.NewService(employee.NewStore(pool))
	reviewService := review.NewService(review.NewStore(pool))
	reportsService := reports.NewService(employeeService, reviewService)

	cookies := shared.CookieWriter{Secure: cfg.SecureCookies, TTL: cfg.SessionTTL}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(chimw.StripSlashes)
	router.Use(middleware.SessionLoader(authService))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRFGuard(cfg.SessionSecret))

		authhandler.NewHandler(authService, cfg.SessionSecret, cookies).RegisterRoutes(r)
		employeehandler.NewHandler(employeeService, reviewService, cfg.StatsStrictErrors).RegisterRoutes(r)
		reviewhandler.NewHandler(reviewService, cfg.StatsStrictErrors).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func Run() error {
	ctx := context.Background()
	app, err := New(ctx, config.Load())
	if err != nil {
		return err
	}
	defer app.DB.Close()

	slog.Info("server listening", "addr", app.Config.Addr)
	return http.ListenAndServe(app.Config.Addr, app.Router)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
