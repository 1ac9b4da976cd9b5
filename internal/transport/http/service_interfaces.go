package http

import (
	"context"

	"github.com/xuri/excelize/v2"

	"rechnungsprofi/internal/exporter"
	"rechnungsprofi/internal/progress"
	"rechnungsprofi/internal/services"
)

// ExportServiceInterface is the export surface the handlers depend on.
// Defined here so tests can substitute a mock.
type ExportServiceInterface interface {
	ExportCSV(ctx context.Context, req services.ExportRequest) (*services.ExportResult, error)
	ExportXLSX(ctx context.Context, req services.ExportRequest) (*excelize.File, string, error)
	StartBulk(ctx context.Context, req services.ExportRequest) (string, error)
	BulkStatus(id string) (progress.State, error)
}

// InvoiceServiceInterface is the invoice surface the handlers depend on.
type InvoiceServiceInterface interface {
	List(ctx context.Context) ([]exporter.Record, error)
	Get(ctx context.Context, id string) (exporter.Record, error)
	Create(ctx context.Context, input services.InvoiceInput) (exporter.Record, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
