package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// StorePinger reports whether the invoice store is reachable.
type StorePinger interface {
	Count(ctx context.Context) (int, error)
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store     StorePinger
	logger    *slog.Logger
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StorePinger, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:     store,
		logger:    logger.With(slog.String("handler", "health")),
		version:   version,
		startedAt: time.Now().UTC(),
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.HealthCheck)
	r.Get("/ready", h.ReadinessCheck)
	r.Get("/live", h.LivenessCheck)

	return r
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	invoiceCount, err := h.store.Count(r.Context())
	status := "healthy"
	if err != nil {
		h.logger.ErrorContext(r.Context(), "store health check failed",
			slog.String("error", err.Error()))
		status = "degraded"
	}

	response := map[string]any{
		"status":  status,
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	}
	if err == nil {
		response["invoices"] = invoiceCount
	}

	if status != "healthy" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response)
}

// ReadinessCheck handles GET /api/health/ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Count(r.Context()); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]any{"ready": false})
		return
	}
	render.JSON(w, r, map[string]any{"ready": true})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"alive": true})
}
