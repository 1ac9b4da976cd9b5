package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"rechnungsprofi/internal/config"
	"rechnungsprofi/internal/exporter"
	"rechnungsprofi/internal/infrastructure"
	"rechnungsprofi/internal/progress"
)

// InvoiceSource supplies the invoices an export draws from.
type InvoiceSource interface {
	List(ctx context.Context) ([]exporter.Record, error)
}

// ExportRequest is the client-facing export payload.
type ExportRequest struct {
	SelectedIDs    []string          `json:"selectedIds,omitempty"`
	Filters        *exporter.Filters `json:"filters,omitempty"`
	Columns        []string          `json:"columns,omitempty"`
	IncludeSummary *bool             `json:"includeSummary,omitempty"`
	Filename       string            `json:"filename,omitempty"`
}

// ExportResult describes a finished export.
type ExportResult struct {
	Filename    string  `json:"filename"`
	RowCount    int     `json:"rowCount"`
	TotalAmount float64 `json:"totalAmount"`
	DownloadURL string  `json:"downloadUrl"`
	Message     string  `json:"message"`
}

// ExportService builds CSV and XLSX invoice exports.
type ExportService struct {
	source   InvoiceSource
	progress progress.Store
	metrics  *infrastructure.Metrics
	cfg      config.ExportConfig
	logger   *slog.Logger
}

// NewExportService creates an ExportService.
func NewExportService(source InvoiceSource, store progress.Store, metrics *infrastructure.Metrics, cfg config.ExportConfig, logger *slog.Logger) *ExportService {
	return &ExportService{
		source:   source,
		progress: store,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}
}

// ExportCSV builds a CSV document for the requested invoices and
// returns it embedded in a data URL.
func (s *ExportService) ExportCSV(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	start := time.Now()

	records, fellBack, err := s.resolve(ctx, req)
	if err != nil {
		s.metrics.ExportsTotal.WithLabelValues("csv", "error").Inc()
		return nil, err
	}

	document := exporter.BuildDocument(records, s.buildOptions(req))
	totals := exporter.Summarize(records)
	filename := exporter.Filename(req.Filename)

	result := &ExportResult{
		Filename:    filename,
		RowCount:    len(records),
		TotalAmount: totals["gewinn"],
		DownloadURL: csvDataURL(document),
		Message:     exportMessage(len(records), fellBack),
	}

	s.metrics.ExportsTotal.WithLabelValues("csv", "success").Inc()
	s.metrics.ExportRows.Observe(float64(len(records)))
	s.metrics.ExportDuration.Observe(time.Since(start).Seconds())

	s.logger.InfoContext(ctx, "csv export built",
		"filename", filename,
		"rows", len(records),
		"fallback", fellBack,
		"duration", time.Since(start))

	return result, nil
}

// ExportXLSX builds an Excel workbook for the requested invoices. The
// returned filename carries an .xlsx extension.
func (s *ExportService) ExportXLSX(ctx context.Context, req ExportRequest) (*excelize.File, string, error) {
	start := time.Now()

	records, fellBack, err := s.resolve(ctx, req)
	if err != nil {
		s.metrics.ExportsTotal.WithLabelValues("xlsx", "error").Inc()
		return nil, "", err
	}

	file, err := exporter.BuildWorkbook(records, s.buildOptions(req))
	if err != nil {
		s.metrics.ExportsTotal.WithLabelValues("xlsx", "error").Inc()
		return nil, "", fmt.Errorf("failed to build workbook: %w", err)
	}

	filename := strings.TrimSuffix(exporter.Filename(req.Filename), ".csv") + ".xlsx"

	s.metrics.ExportsTotal.WithLabelValues("xlsx", "success").Inc()
	s.metrics.ExportRows.Observe(float64(len(records)))
	s.metrics.ExportDuration.Observe(time.Since(start).Seconds())

	s.logger.InfoContext(ctx, "xlsx export built",
		"filename", filename,
		"rows", len(records),
		"fallback", fellBack,
		"duration", time.Since(start))

	return file, filename, nil
}

// StartBulk resolves the requested invoices, kicks off a background
// job that formats them in bounded parallel chunks, and returns the
// job ID for status polling.
func (s *ExportService) StartBulk(ctx context.Context, req ExportRequest) (string, error) {
	records, fellBack, err := s.resolve(ctx, req)
	if err != nil {
		s.metrics.ExportsTotal.WithLabelValues("bulk", "error").Inc()
		return "", err
	}

	jobID := uuid.NewString()
	s.progress.Put(progress.State{
		ID:     jobID,
		Status: progress.StatusRunning,
		Total:  len(records),
	})

	s.logger.InfoContext(ctx, "bulk export started",
		"job_id", jobID,
		"rows", len(records),
		"workers", s.cfg.BulkWorkers)

	// The job outlives the HTTP request that started it.
	go s.runBulk(context.Background(), jobID, records, req, fellBack)

	return jobID, nil
}

// BulkStatus returns the current state of a bulk export job.
func (s *ExportService) BulkStatus(id string) (progress.State, error) {
	state, ok := s.progress.Get(id)
	if !ok {
		return progress.State{}, ErrJobNotFound
	}
	return state, nil
}

func (s *ExportService) runBulk(ctx context.Context, jobID string, records []exporter.Record, req ExportRequest, fellBack bool) {
	start := time.Now()
	s.metrics.BulkJobsActive.Inc()
	defer s.metrics.BulkJobsActive.Dec()

	opts := s.buildOptions(req)
	cols := exporter.ActiveColumns(opts.Columns)

	chunkSize := s.cfg.BulkChunkSize
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	chunkCount := (len(records) + chunkSize - 1) / chunkSize
	chunks := make([]string, chunkCount)

	state := progress.State{
		ID:        jobID,
		Status:    progress.StatusRunning,
		Total:     len(records),
		StartedAt: time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BulkWorkers)

	completed := make(chan int, chunkCount)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := range completed {
			state.Completed += n
			s.progress.Put(state)
		}
	}()

	for i := 0; i < chunkCount; i++ {
		i := i
		lo := i * chunkSize
		hi := min(lo+chunkSize, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks[i] = exporter.BuildChunk(records[lo:hi], cols)
			completed <- hi - lo
			return nil
		})
	}

	err := g.Wait()
	close(completed)
	<-done

	if err != nil {
		state.Status = progress.StatusFailed
		state.Failed = state.Total - state.Completed
		state.Message = "Export fehlgeschlagen"
		s.progress.Put(state)
		s.metrics.ExportsTotal.WithLabelValues("bulk", "error").Inc()
		s.logger.Error("bulk export failed", "job_id", jobID, "error", err)
		return
	}

	document := exporter.AssembleDocument(records, chunks, cols, opts.IncludeSummary)
	totals := exporter.Summarize(records)
	filename := exporter.Filename(req.Filename)

	state.Status = progress.StatusCompleted
	state.Message = exportMessage(len(records), fellBack)
	state.Result = &ExportResult{
		Filename:    filename,
		RowCount:    len(records),
		TotalAmount: totals["gewinn"],
		DownloadURL: csvDataURL(document),
		Message:     exportMessage(len(records), fellBack),
	}
	s.progress.Put(state)

	s.metrics.ExportsTotal.WithLabelValues("bulk", "success").Inc()
	s.metrics.ExportRows.Observe(float64(len(records)))
	s.metrics.ExportDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("bulk export completed",
		"job_id", jobID,
		"rows", len(records),
		"duration", time.Since(start))
}

// resolve applies the selection cap, loads the invoices and narrows
// them per the request. The bool reports whether a non-empty selection
// matched nothing and the export fell back to all invoices.
func (s *ExportService) resolve(ctx context.Context, req ExportRequest) ([]exporter.Record, bool, error) {
	if len(req.SelectedIDs) > s.cfg.MaxSelected {
		return nil, false, fmt.Errorf("%w: %d selected, limit %d", ErrTooManySelected, len(req.SelectedIDs), s.cfg.MaxSelected)
	}

	all, err := s.source.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load invoices: %w", err)
	}

	if len(all) == 0 && s.cfg.DemoFallback {
		s.logger.WarnContext(ctx, "invoice store empty, using generated demo data")
		all = exporter.SampleRecords(20)
	}
	if len(all) == 0 {
		return nil, false, ErrNoData
	}

	records, fellBack := exporter.ResolveRecords(all, exporter.Options{
		SelectedIDs: req.SelectedIDs,
		Filters:     req.Filters,
	})
	if len(records) == 0 {
		return nil, false, ErrNoData
	}
	return records, fellBack, nil
}

func (s *ExportService) buildOptions(req ExportRequest) exporter.BuildOptions {
	opts := exporter.DefaultBuildOptions()
	opts.Columns = req.Columns
	if req.IncludeSummary != nil {
		opts.IncludeSummary = *req.IncludeSummary
	}
	return opts
}

// csvDataURL embeds the document in a data URL the client can download
// directly. Spaces must be percent-encoded, not plus-encoded.
func csvDataURL(document string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(document), "+", "%20")
	return "data:text/csv;charset=utf-8," + encoded
}

func exportMessage(rows int, fellBack bool) string {
	msg := fmt.Sprintf("%d Rechnungen erfolgreich exportiert", rows)
	if fellBack {
		msg += " (Auswahl ergab keine Treffer, alle Rechnungen exportiert)"
	}
	return msg
}
