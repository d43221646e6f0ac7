// Package app wires configuration, logging, the dataset loader, the chart
// service and the HTTP transport into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mintel/internal/config"
	"mintel/internal/dataset"
	apierrors "mintel/internal/errors"
	"mintel/internal/infrastructure"
	custommiddleware "mintel/internal/middleware"
	"mintel/internal/services"
	handlers "mintel/internal/transport/http"
)

const (
	Version = "v1.2.0"
	AppName = "MIntel - Market Intelligence Dashboard API"
)

// Application represents the main application container
type Application struct {
	Config       *config.Config
	Router       *chi.Mux
	Server       *http.Server
	Logger       *slog.Logger
	ChartService *services.ChartService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	chartService, err := services.NewChartServiceWithLogger(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart service: %w", err)
	}

	// Dataset acquisition belongs to the outer layer: the core packages
	// consume an already-decoded dataset and never touch the filesystem.
	if err := loadDataset(cfg.Dataset.Path, chartService, logger); err != nil {
		return nil, err
	}

	app := &Application{
		Config:       cfg,
		Logger:       logger,
		ChartService: chartService,
	}
	app.setupRouter()
	app.setupServer()

	return app, nil
}

// loadDataset decodes the dataset JSON written by the external workbook
// loader and installs it into the chart service. A missing file is fatal at
// startup: the service has nothing to serve without it.
func loadDataset(path string, svc *services.ChartService, logger *slog.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	ds, err := dataset.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode dataset: %w", err)
	}

	svc.SetDataset(ds)
	logger.Info("dataset loaded", slog.String("path", path), slog.String("dataset_id", ds.ID))
	return nil
}

// setupRouter configures the middleware chain and routes
func (a *Application) setupRouter() {
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.Logger))
	r.Use(custommiddleware.RateLimiter(a.Config.Security.RateLimit))
	r.Use(chimiddleware.Recoverer)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	chartHandler := handlers.NewChartHandler(a.ChartService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(Version)

	r.Mount("/api", chartHandler.Routes())
	r.Get("/healthz", healthHandler.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// setupServer configures the HTTP server
func (a *Application) setupServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown
func (a *Application) Run() error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	a.Logger.Info("application stopped", slog.Duration("grace_period", a.Config.Server.ShutdownTimeout))
	return nil
}
