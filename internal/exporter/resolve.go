package exporter

import (
	"strings"
	"time"
)

// Filters narrows the record set when no explicit selection applies.
type Filters struct {
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`
	Category string     `json:"category,omitempty"`
	// DisplayedInvoices is a second id-allowlist, used when the caller has
	// already applied search/sort on its side and exports exactly what is
	// on screen.
	DisplayedInvoices []string `json:"displayedInvoices,omitempty"`
}

// Options selects and shapes an export.
type Options struct {
	SelectedIDs    []string `json:"selectedIds,omitempty"`
	Filters        *Filters `json:"filters,omitempty"`
	Columns        []string `json:"columns,omitempty"`
	IncludeSummary bool     `json:"includeSummary"`
	Filename       string   `json:"filename,omitempty"`
}

// ResolveRecords applies the selection priority chain to the full record set
// and returns the effective subset. Tiers, first match wins:
//
//  1. SelectedIDs: intersect by id. An empty intersection falls back to the
//     entire set rather than exporting zero rows.
//  2. Filters.DisplayedInvoices: intersect by id.
//  3. Attribute filters: DateFrom/DateTo (inclusive) and case-insensitive
//     category substring, applied conjunctively.
//  4. An empty result after filtering falls back to the entire set again, so
//     a non-empty input never yields a zero-row export.
//
// The second return value reports whether a fallback to the full set
// happened, so callers can surface it instead of silently substituting.
func ResolveRecords(all []Record, opts Options) ([]Record, bool) {
	if len(all) == 0 {
		return nil, false
	}

	switch {
	case len(opts.SelectedIDs) > 0:
		matched := intersectByID(all, opts.SelectedIDs)
		if len(matched) == 0 {
			// None of the requested ids exist in the current set.
			return all, true
		}
		return matched, false

	case opts.Filters != nil && len(opts.Filters.DisplayedInvoices) > 0:
		matched := intersectByID(all, opts.Filters.DisplayedInvoices)
		if len(matched) == 0 {
			return all, true
		}
		return matched, false

	default:
		filtered := applyFilters(all, opts.Filters)
		if len(filtered) == 0 {
			return all, true
		}
		return filtered, false
	}
}

func intersectByID(records []Record, ids []string) []Record {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var matched []Record
	for _, rec := range records {
		if wanted[rec.ID] {
			matched = append(matched, rec)
		}
	}
	return matched
}

func applyFilters(records []Record, f *Filters) []Record {
	if f == nil {
		return records
	}
	var filtered []Record
	category := strings.ToLower(f.Category)
	for _, rec := range records {
		if f.DateFrom != nil && rec.Date.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && rec.Date.After(*f.DateTo) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(rec.Category), category) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}
