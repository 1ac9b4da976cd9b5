package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "rechnungsprofi/internal/errors"
	"rechnungsprofi/internal/exporter"
	"rechnungsprofi/internal/services"
)

// ExportHandler handles export HTTP requests with RFC 7807 compliance
type ExportHandler struct {
	service      ExportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ExportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/csv", h.ExportCSV)
	r.Get("/csv", h.ExportMeta)
	r.Post("/xlsx", h.ExportXLSX)

	r.Post("/bulk", h.StartBulk)
	r.Get("/bulk/{jobID}", h.BulkStatus)

	return r
}

// ExportCSV handles POST /api/invoices/export/csv
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "csv export requested",
		slog.Int("selected", len(req.SelectedIDs)),
		slog.Bool("filtered", req.Filters != nil),
	)

	result, err := h.service.ExportCSV(r.Context(), req)
	if err != nil {
		h.handleExportError(w, r, err)
		return
	}

	render.JSON(w, r, exportEnvelope(result))
}

// ExportXLSX handles POST /api/invoices/export/xlsx. The workbook is
// streamed as an attachment rather than embedded in a data URL.
func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	file, filename, err := h.service.ExportXLSX(r.Context(), req)
	if err != nil {
		h.handleExportError(w, r, err)
		return
	}

	// Buffer first so an assembly failure can still produce a problem
	// response instead of a half-written body.
	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to serialize workbook",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// StartBulk handles POST /api/invoices/export/bulk
func (h *ExportHandler) StartBulk(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	jobID, err := h.service.StartBulk(r.Context(), req)
	if err != nil {
		h.handleExportError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]any{
		"success": true,
		"jobId":   jobID,
		"status":  "running",
	})
}

// BulkStatus handles GET /api/invoices/export/bulk/{jobID}
func (h *ExportHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("jobID", "Job ID is required"))
		return
	}

	state, err := h.service.BulkStatus(jobID)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ErrJobNotFound)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"success": true,
		"job":     state,
	})
}

// ExportMeta handles GET /api/invoices/export/csv. The action query
// parameter selects the column schema, a sample data set, or format
// information.
func (h *ExportHandler) ExportMeta(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch action {
	case "columns":
		render.JSON(w, r, map[string]any{
			"success":        true,
			"columns":        exporter.Columns,
			"numericColumns": exporter.NumericColumns,
		})

	case "sample":
		records := exporter.SampleRecords(5)
		render.JSON(w, r, map[string]any{
			"success":  true,
			"sample":   exporter.BuildDocument(records, exporter.DefaultBuildOptions()),
			"rowCount": len(records),
		})

	default:
		// Any other action, including none, serves the capability info.
		render.JSON(w, r, map[string]any{
			"success": true,
			"info": map[string]any{
				"format":       "CSV",
				"separator":    ";",
				"encoding":     "UTF-8 with BOM",
				"dateFormat":   "dd.MM.yyyy",
				"numberFormat": "1234,50",
				"maxRows":      100000,
			},
		})
	}
}

// decodeRequest parses the export payload. An empty body is a valid
// export-everything request.
func (h *ExportHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (services.ExportRequest, bool) {
	var req services.ExportRequest

	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid export payload",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return req, false
	}
	return req, true
}

// handleExportError maps service errors onto API errors
func (h *ExportHandler) handleExportError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "export failed",
		slog.String("error", err.Error()))

	switch {
	case errors.Is(err, services.ErrTooManySelected):
		h.errorHandler.HandleError(w, r, apierrors.ErrSelectionTooBig)
	case errors.Is(err, services.ErrNoData):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoExportData)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func exportEnvelope(result *services.ExportResult) map[string]any {
	return map[string]any{
		"success":     true,
		"filename":    result.Filename,
		"rowCount":    result.RowCount,
		"totalAmount": result.TotalAmount,
		"downloadUrl": result.DownloadURL,
		"message":     result.Message,
	}
}
