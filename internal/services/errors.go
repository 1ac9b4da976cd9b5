package services

import "errors"

// Service layer errors. The transport layer maps these onto HTTP
// problem responses.
var (
	// Export errors
	ErrNoData          = errors.New("no invoice data available for export")
	ErrTooManySelected = errors.New("too many invoices selected")

	// Invoice errors
	ErrInvoiceNotFound = errors.New("invoice not found")

	// Bulk job errors
	ErrJobNotFound = errors.New("export job not found")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
