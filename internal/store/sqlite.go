// Package store persists invoices in an embedded SQLite database.
// Dates are stored as RFC 3339 strings and deletes are soft so an
// export never races a concurrent removal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"rechnungsprofi/internal/exporter"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
	id                TEXT PRIMARY KEY,
	datum             TEXT NOT NULL,
	produktname       TEXT NOT NULL DEFAULT '',
	ean               TEXT NOT NULL DEFAULT '',
	bestellnummer     TEXT NOT NULL DEFAULT '',
	kategorie         TEXT NOT NULL DEFAULT '',
	stueckzahl        INTEGER NOT NULL DEFAULT 0,
	verkaufspreis     REAL NOT NULL DEFAULT 0,
	einkaufspreis     REAL NOT NULL DEFAULT 0,
	versandkosten     REAL NOT NULL DEFAULT 0,
	amazon_gebuehren  REAL NOT NULL DEFAULT 0,
	mwst              REAL NOT NULL DEFAULT 0,
	retouren          REAL NOT NULL DEFAULT 0,
	werbungskosten    REAL NOT NULL DEFAULT 0,
	sonstige_kosten   REAL NOT NULL DEFAULT 0,
	gewinn            REAL NOT NULL DEFAULT 0,
	created_at        TEXT NOT NULL,
	deleted_at        TEXT
);
CREATE INDEX IF NOT EXISTS idx_invoices_datum ON invoices(datum);
CREATE INDEX IF NOT EXISTS idx_invoices_kategorie ON invoices(kategorie);
`

const invoiceColumns = `id, datum, produktname, ean, bestellnummer, kategorie,
	stueckzahl, verkaufspreis, einkaufspreis, versandkosten, amazon_gebuehren,
	mwst, retouren, werbungskosten, sonstige_kosten, gewinn`

// InvoiceStore wraps the SQLite connection.
type InvoiceStore struct {
	db   *sql.DB
	path string
}

// Open opens (and if necessary creates) the database at dbPath and
// applies the schema. WAL mode keeps concurrent export reads cheap.
func Open(dbPath string) (*InvoiceStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &InvoiceStore{db: db, path: dbPath}, nil
}

// Close closes the underlying connection.
func (s *InvoiceStore) Close() error {
	return s.db.Close()
}

// List returns all invoices that have not been soft-deleted, oldest
// first.
func (s *InvoiceStore) List(ctx context.Context) ([]exporter.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE deleted_at IS NULL ORDER BY datum, id`, invoiceColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var records []exporter.Record
	for rows.Next() {
		record, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoices: %w", err)
	}
	return records, nil
}

// Get returns a single invoice by id. sql.ErrNoRows is returned when
// the invoice does not exist or was soft-deleted.
func (s *InvoiceStore) Get(ctx context.Context, id string) (exporter.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = ? AND deleted_at IS NULL`, invoiceColumns)

	row := s.db.QueryRowContext(ctx, query, id)
	return scanInvoice(row)
}

// Insert stores a new invoice. An empty ID is assigned a fresh UUID.
// It returns the stored record.
func (s *InvoiceStore) Insert(ctx context.Context, record exporter.Record) (exporter.Record, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`INSERT INTO invoices (%s, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, invoiceColumns)

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.Date.UTC().Format(time.RFC3339),
		record.ProductName,
		record.EAN,
		record.OrderNumber,
		record.Category,
		record.UnitsSold,
		record.SalePrice,
		record.PurchasePrice,
		record.ShippingCost,
		record.MarketplaceFee,
		record.VAT,
		record.Returns,
		record.AdvertisingCost,
		record.MiscCost,
		record.Profit,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return exporter.Record{}, fmt.Errorf("failed to insert invoice: %w", err)
	}
	return record, nil
}

// Count returns the number of live invoices.
func (s *InvoiceStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

// SoftDelete marks an invoice as deleted without removing the row.
// It reports whether an invoice was affected.
func (s *InvoiceStore) SoftDelete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete invoice: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (exporter.Record, error) {
	var record exporter.Record
	var datum string

	err := row.Scan(
		&record.ID,
		&datum,
		&record.ProductName,
		&record.EAN,
		&record.OrderNumber,
		&record.Category,
		&record.UnitsSold,
		&record.SalePrice,
		&record.PurchasePrice,
		&record.ShippingCost,
		&record.MarketplaceFee,
		&record.VAT,
		&record.Returns,
		&record.AdvertisingCost,
		&record.MiscCost,
		&record.Profit,
	)
	if err != nil {
		return exporter.Record{}, err
	}

	record.Date, err = time.Parse(time.RFC3339, datum)
	if err != nil {
		return exporter.Record{}, fmt.Errorf("invalid date on invoice %s: %w", record.ID, err)
	}
	return record, nil
}
