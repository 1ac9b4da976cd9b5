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
	"github.com/go-chi/render"

	"rechnungsprofi/internal/config"
	apierrors "rechnungsprofi/internal/errors"
	"rechnungsprofi/internal/infrastructure"
	customMiddleware "rechnungsprofi/internal/middleware"
	"rechnungsprofi/internal/progress"
	"rechnungsprofi/internal/services"
	"rechnungsprofi/internal/store"
	transport "rechnungsprofi/internal/transport/http"
)

const (
	AppName = "RechnungsProfi Export Service"
	Version = "1.0.0"
)

// Application wires configuration, storage, services and the HTTP
// server together and manages their lifecycle.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	store    *store.InvoiceStore
	metrics  *infrastructure.Metrics
	progress *progress.MemoryStore

	exportService  *services.ExportService
	invoiceService *services.InvoiceService

	janitorCancel context.CancelFunc
}

// NewApplication builds a fully wired application from the given
// configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() error {
	invoiceStore, err := store.Open(a.Config.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open invoice store: %w", err)
	}
	a.store = invoiceStore

	a.progress = progress.NewMemoryStore()

	a.exportService = services.NewExportService(
		invoiceStore,
		a.progress,
		a.metrics,
		a.Config.Export,
		a.Logger.With(slog.String("service", "export")),
	)
	a.invoiceService = services.NewInvoiceService(
		invoiceStore,
		a.Logger.With(slog.String("service", "invoices")),
	)

	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout))
		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)
	})

	// Metrics stay outside the middleware group.
	r.Handle("/metrics", a.metrics.Handler())

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	exportHandler := transport.NewExportHandler(a.exportService, a.Logger, errorHandler)
	invoiceHandler := transport.NewInvoiceHandler(a.invoiceService, a.Logger, errorHandler)
	healthHandler := transport.NewHealthHandler(a.store, Version, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/health", healthHandler.Routes())
		r.Mount("/invoices/export", exportHandler.Routes())
		r.Mount("/invoices", invoiceHandler.Routes())

		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server and background services. A server
// failure cancels the supplied context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("database", a.Config.Storage.DatabasePath))

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	a.janitorCancel = janitorCancel
	progress.StartJanitor(janitorCtx, a.progress,
		a.Config.Export.SweepInterval, a.Config.Export.ProgressTTL, a.Logger)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully shuts the application down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.janitorCancel != nil {
		a.janitorCancel()
	}

	if err := a.store.Close(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing invoice store", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
