// Package exporter builds German-locale invoice export documents.
//
// The package is pure computation: callers load and select records, the
// exporter formats them. Three pieces:
//
// Columns/Record: the fixed 15-column export schema (German keys and header
// labels, each column typed date/text/number/currency) and the invoice row
// it projects.
//
// BuildDocument/BuildWorkbook: assemble a semicolon-delimited, BOM-prefixed
// CSV text or an XLSX workbook, optionally appending a SUMME totals row.
//
// ResolveRecords: the selection priority chain (explicit ids, displayed-set,
// attribute filters, fallback-to-all) that decides which records enter an
// export.
//
// All formatting functions are total: malformed input degrades to empty or
// zero cells, never an error.
package exporter
