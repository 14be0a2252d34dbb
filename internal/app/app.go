// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/assureops/incident-desk/internal/assist"
	"github.com/assureops/incident-desk/internal/config"
	"github.com/assureops/incident-desk/internal/dashboard"
	"github.com/assureops/incident-desk/internal/identity"
	"github.com/assureops/incident-desk/internal/incidents"
	"github.com/assureops/incident-desk/internal/pkg/httputil"
	"github.com/assureops/incident-desk/internal/pkg/metrics"
	"github.com/assureops/incident-desk/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App represents the application instance.
type App struct {
	config         *config.Config
	logger         *slog.Logger
	store          *incidents.Store
	assistSessions *assist.SessionManager
	server         *http.Server
	metricsServer  *http.Server
	metricsCancel  context.CancelFunc
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	store := incidents.NewStore(cfg.Store.Strict)
	if cfg.Store.Seed {
		if err := incidents.Seed(store); err != nil {
			return nil, fmt.Errorf("seed incident store: %w", err)
		}
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		store:         store,
		metricsCancel: metricsCancel,
	}

	go app.collectStoreMetrics(metricsCtx)

	router, err := app.setupRouter()
	if err != nil {
		metricsCancel()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	// Start main server
	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()

	// Stop assist sessions first so no in-flight timers outlive the servers
	if a.assistSessions != nil {
		a.assistSessions.Stop()
	}

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	return errors.Join(errs...)
}

func (a *App) collectStoreMetrics(ctx context.Context) {
	// Collect immediately on start
	metrics.RecordStoreMetrics(a.store)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordStoreMetrics(a.store)
		case <-ctx.Done():
			return
		}
	}
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

// Store returns the incident store. Used in tests to inspect state.
func (a *App) Store() *incidents.Store {
	return a.store
}

func (a *App) setupRouter() (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.healthzHandler)
	r.Get("/version", a.versionHandler)

	identityService, err := identity.NewService(identity.Config{
		SecretKey:     a.config.Session.SecretKey,
		TokenDuration: a.config.Session.TokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("create identity service: %w", err)
	}
	identityHandler := identity.NewHandler(identityService)

	incidentService := incidents.NewService(a.store)
	incidentHandler := incidents.NewHandler(incidentService)

	dashboardHandler := dashboard.NewHandler(a.store)

	generator, err := a.buildGenerator()
	if err != nil {
		return nil, err
	}
	assistClient := assist.NewClient(generator, assist.ClientConfig{
		Timeout:   a.config.Assist.Timeout,
		RateLimit: a.config.Assist.RateLimit,
		RateBurst: a.config.Assist.RateBurst,
	})
	a.assistSessions = assist.NewSessionManager(assistClient, a.config.Assist.Debounce, a.config.Assist.SessionTTL)
	chatbot := assist.NewChatbot(generator, a.config.Assist.Timeout)
	assistHandler := assist.NewHandler(a.assistSessions, chatbot)

	r.Route("/api/v1", func(r chi.Router) {
		identityHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(identityService))

			identityHandler.RegisterProtectedRoutes(r)
			incidentHandler.RegisterRoutes(r)
			assistHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireAgent)
				dashboardHandler.RegisterRoutes(r)
				assistHandler.RegisterAgentRoutes(r)
			})
		})
	})

	return r, nil
}

func (a *App) buildGenerator() (assist.Generator, error) {
	if !a.config.Assist.Enabled || a.config.Assist.APIKey == "" {
		a.logger.Warn("assist is disabled: triage suggestions and chatbot will degrade to fallbacks")
		return assist.NewDisabledGenerator(), nil
	}

	generator, err := assist.NewOpenAIGenerator(a.config.Assist.APIKey, a.config.Assist.Model, a.config.Assist.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("create assist generator: %w", err)
	}
	return generator, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
