package exporter

import (
	"strings"
	"time"
)

// bom is the UTF-8 byte-order-mark prefixed to the header line so Excel
// (Germany) detects the encoding.
const bom = "\uFEFF"

// summaryLabel is the literal written into the date column of the totals row.
const summaryLabel = "SUMME"

// BuildOptions configures document assembly.
type BuildOptions struct {
	// Columns is an optional subset of the canonical schema, by key.
	// Membership is honored, order is not.
	Columns []string
	// IncludeSummary appends a totals row after the data rows.
	IncludeSummary bool
}

// DefaultBuildOptions returns the assembly defaults: all columns, with a
// summary row.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{IncludeSummary: true}
}

// BuildDocument assembles the full CSV text: BOM-prefixed header, one line
// per record, and optionally a summary row when records are present. Lines
// are joined with \n.
func BuildDocument(records []Record, opts BuildOptions) string {
	cols := ActiveColumns(opts.Columns)

	lines := make([]string, 0, len(records)+2)
	lines = append(lines, headerLine(cols))
	for _, rec := range records {
		lines = append(lines, recordLine(rec, cols))
	}
	if opts.IncludeSummary && len(records) > 0 {
		lines = append(lines, summaryLine(Summarize(records), cols))
	}
	return strings.Join(lines, "\n")
}

// headerLine emits the BOM-prefixed header, labels escaped and joined by
// the semicolon delimiter.
func headerLine(cols []Column) string {
	labels := make([]string, len(cols))
	for i, col := range cols {
		labels[i] = escapeValue(col.Label)
	}
	return bom + strings.Join(labels, ";")
}

// recordLine renders one record across the active columns in canonical order.
func recordLine(rec Record, cols []Column) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		cells[i] = FormatCell(rec.Value(col.Key), col.Type)
	}
	return strings.Join(cells, ";")
}

// summaryLine renders the totals row: the date column carries the SUMME
// label, numeric columns their sums, text columns stay empty.
func summaryLine(totals map[string]float64, cols []Column) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		switch {
		case col.Key == "datum":
			cells[i] = escapeValue(summaryLabel)
		case IsNumericColumn(col.Key):
			cells[i] = formatNumber(totals[col.Key])
		default:
			cells[i] = ""
		}
	}
	return strings.Join(cells, ";")
}

// BuildChunk renders a slice of records as data lines only, joined with \n.
// Bulk exports format chunks in parallel and stitch them back together with
// AssembleDocument.
func BuildChunk(records []Record, cols []Column) string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = recordLine(rec, cols)
	}
	return strings.Join(lines, "\n")
}

// AssembleDocument joins pre-rendered chunks into a complete document,
// adding the header and optionally the totals row. The result is identical
// to BuildDocument over the same records.
func AssembleDocument(records []Record, chunks []string, cols []Column, includeSummary bool) string {
	// Chunk boundaries are exact, so even a chunk rendering as an empty
	// line is a real data row and must be kept.
	lines := make([]string, 0, len(chunks)+2)
	lines = append(lines, headerLine(cols))
	lines = append(lines, chunks...)
	if includeSummary && len(records) > 0 {
		lines = append(lines, summaryLine(Summarize(records), cols))
	}
	return strings.Join(lines, "\n")
}

// Summarize reduces a record set to per-column totals for the monetary
// columns. Values that fail numeric coercion count as zero.
func Summarize(records []Record) map[string]float64 {
	totals := make(map[string]float64, len(NumericColumns))
	for _, key := range NumericColumns {
		sum := 0.0
		for _, rec := range records {
			sum += CoerceNumber(rec.Value(key))
		}
		totals[key] = sum
	}
	return totals
}

// Filename returns the caller's filename unchanged, or derives the default
// rechnungen_export_<YYYY-MM-DD_HH-mm>.csv from the current UTC time.
func Filename(custom string) string {
	if custom != "" {
		return custom
	}
	return "rechnungen_export_" + time.Now().UTC().Format("2006-01-02_15-04") + ".csv"
}
