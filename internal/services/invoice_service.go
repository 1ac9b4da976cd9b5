package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"rechnungsprofi/internal/exporter"
)

// InvoiceStore is the persistence surface the invoice service needs.
type InvoiceStore interface {
	List(ctx context.Context) ([]exporter.Record, error)
	Get(ctx context.Context, id string) (exporter.Record, error)
	Insert(ctx context.Context, record exporter.Record) (exporter.Record, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// InvoiceInput is the payload for creating an invoice. Monetary fields
// may be negative (credits, corrections) except the sale price.
type InvoiceInput struct {
	Date            time.Time `json:"datum" validate:"required"`
	ProductName     string    `json:"produktname" validate:"required,max=500"`
	EAN             string    `json:"ean" validate:"omitempty,numeric,min=8,max=14"`
	OrderNumber     string    `json:"bestellnummer" validate:"max=100"`
	Category        string    `json:"kategorie" validate:"max=200"`
	UnitsSold       int       `json:"stueckzahlVerkauft" validate:"gte=0"`
	SalePrice       float64   `json:"verkaufspreis" validate:"gte=0"`
	PurchasePrice   float64   `json:"einkaufspreis"`
	ShippingCost    float64   `json:"versandkosten"`
	MarketplaceFee  float64   `json:"amazonGebuehren"`
	VAT             float64   `json:"mwst"`
	Returns         float64   `json:"retouren"`
	AdvertisingCost float64   `json:"werbungskosten"`
	MiscCost        float64   `json:"sonstigeKosten"`
	Profit          float64   `json:"gewinn"`
}

// InvoiceService manages the invoice records behind the exports.
type InvoiceService struct {
	store    InvoiceStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService(store InvoiceStore, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// List returns all live invoices.
func (s *InvoiceService) List(ctx context.Context) ([]exporter.Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if records == nil {
		records = []exporter.Record{}
	}
	return records, nil
}

// Get returns a single invoice.
func (s *InvoiceService) Get(ctx context.Context, id string) (exporter.Record, error) {
	record, err := s.store.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return exporter.Record{}, ErrInvoiceNotFound
	}
	if err != nil {
		return exporter.Record{}, fmt.Errorf("failed to load invoice: %w", err)
	}
	return record, nil
}

// Create validates and stores a new invoice.
func (s *InvoiceService) Create(ctx context.Context, input InvoiceInput) (exporter.Record, error) {
	if err := s.validate.Struct(input); err != nil {
		return exporter.Record{}, fmt.Errorf("%w: %s", ErrInvalidInput, validationSummary(err))
	}

	record, err := s.store.Insert(ctx, exporter.Record{
		Date:            input.Date,
		ProductName:     input.ProductName,
		EAN:             input.EAN,
		OrderNumber:     input.OrderNumber,
		Category:        input.Category,
		UnitsSold:       input.UnitsSold,
		SalePrice:       input.SalePrice,
		PurchasePrice:   input.PurchasePrice,
		ShippingCost:    input.ShippingCost,
		MarketplaceFee:  input.MarketplaceFee,
		VAT:             input.VAT,
		Returns:         input.Returns,
		AdvertisingCost: input.AdvertisingCost,
		MiscCost:        input.MiscCost,
		Profit:          input.Profit,
	})
	if err != nil {
		return exporter.Record{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.InfoContext(ctx, "invoice created", "invoice_id", record.ID, "product", record.ProductName)
	return record, nil
}

// Delete soft-deletes an invoice.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if !deleted {
		return ErrInvoiceNotFound
	}

	s.logger.InfoContext(ctx, "invoice deleted", "invoice_id", id)
	return nil
}

// Count returns the number of live invoices.
func (s *InvoiceService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// validationSummary flattens validator errors into a readable one-liner.
func validationSummary(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	summary := ""
	for i, ve := range verrs {
		if i > 0 {
			summary += "; "
		}
		summary += fmt.Sprintf("field %s failed on %s", ve.Field(), ve.Tag())
	}
	return summary
}
