package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "rechnungsprofi/internal/errors"
	"rechnungsprofi/internal/services"
)

// InvoiceHandler handles invoice CRUD requests
type InvoiceHandler struct {
	service      InvoiceServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(service InvoiceServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InvoiceHandler {
	return &InvoiceHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "invoice_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the invoice routes
func (h *InvoiceHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListInvoices)
	r.Post("/", h.CreateInvoice)
	r.Get("/count", h.CountInvoices)
	r.Get("/{invoiceID}", h.GetInvoice)
	r.Delete("/{invoiceID}", h.DeleteInvoice)

	return r
}

// ListInvoices handles GET /api/invoices
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list invoices",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"success":  true,
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// GetInvoice handles GET /api/invoices/{invoiceID}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invoiceID")

	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrInvoiceNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load invoice",
			slog.String("invoice_id", id),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"success": true,
		"invoice": invoice,
	})
}

// CreateInvoice handles POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var input services.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	invoice, err := h.service.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest,
				"VALIDATION_FAILED",
				"Invoice validation failed",
				err.Error(),
			))
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to create invoice",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"success": true,
		"invoice": invoice,
	})
}

// DeleteInvoice handles DELETE /api/invoices/{invoiceID}
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invoiceID")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrInvoiceNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to delete invoice",
			slog.String("invoice_id", id),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"success": true,
		"deleted": id,
	})
}

// CountInvoices handles GET /api/invoices/count
func (h *InvoiceHandler) CountInvoices(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"success": true,
		"count":   count,
	})
}
