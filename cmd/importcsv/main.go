// Command importcsv loads invoices from a semicolon-separated CSV file
// into the invoice database. The file is expected in the same German
// format the export produces: dd.MM.yyyy dates and comma decimals.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"rechnungsprofi/internal/exporter"
	"rechnungsprofi/internal/store"
)

func main() {
	file := flag.String("file", "", "CSV file to import (required)")
	dbPath := flag.String("db", "data/invoices.db", "invoice database path")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if *file == "" {
		logger.Error("missing -file argument")
		flag.Usage()
		os.Exit(2)
	}

	invoiceStore, err := store.Open(*dbPath)
	if err != nil {
		logger.Error("failed to open invoice store", "error", err)
		os.Exit(1)
	}
	defer invoiceStore.Close()

	imported, skipped, err := importFile(context.Background(), invoiceStore, *file, logger)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("import complete", "file", *file, "imported", imported, "skipped", skipped)
}

func importFile(ctx context.Context, invoiceStore *store.InvoiceStore, path string, logger *slog.Logger) (imported, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to read line %d: %w", line+1, err)
		}
		line++

		if line == 1 && looksLikeHeader(row) {
			continue
		}

		record, err := parseRow(row)
		if err != nil {
			logger.Warn("skipping row", "line", line, "error", err)
			skipped++
			continue
		}

		if _, err := invoiceStore.Insert(ctx, record); err != nil {
			return imported, skipped, fmt.Errorf("failed to store row %d: %w", line, err)
		}
		imported++
	}

	return imported, skipped, nil
}

// looksLikeHeader detects the label row the export writes first.
func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimPrefix(row[0], "\uFEFF")
	return strings.EqualFold(first, "Datum")
}

// parseRow maps one CSV row onto an invoice. Columns follow the export
// schema; the trailing monetary columns are optional.
func parseRow(row []string) (exporter.Record, error) {
	if len(row) < 7 {
		return exporter.Record{}, fmt.Errorf("expected at least 7 columns, got %d", len(row))
	}

	first := strings.TrimPrefix(row[0], "\uFEFF")
	if strings.EqualFold(first, "SUMME") {
		return exporter.Record{}, fmt.Errorf("totals row")
	}

	date, err := time.Parse("02.01.2006", first)
	if err != nil {
		return exporter.Record{}, fmt.Errorf("invalid date %q: %w", first, err)
	}

	units, err := strconv.Atoi(strings.TrimSpace(row[5]))
	if err != nil {
		return exporter.Record{}, fmt.Errorf("invalid unit count %q: %w", row[5], err)
	}

	record := exporter.Record{
		Date:        date,
		ProductName: row[1],
		EAN:         row[2],
		OrderNumber: row[3],
		Category:    row[4],
		UnitsSold:   units,
	}

	amounts := []*float64{
		&record.SalePrice,
		&record.PurchasePrice,
		&record.ShippingCost,
		&record.MarketplaceFee,
		&record.VAT,
		&record.Returns,
		&record.AdvertisingCost,
		&record.MiscCost,
		&record.Profit,
	}
	for i, target := range amounts {
		col := 6 + i
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		value, err := parseAmount(row[col])
		if err != nil {
			return exporter.Record{}, fmt.Errorf("invalid amount in column %d: %w", col+1, err)
		}
		*target = value
	}

	return record, nil
}

// parseAmount reads a German decimal like "1234,50".
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return strconv.ParseFloat(s, 64)
}
