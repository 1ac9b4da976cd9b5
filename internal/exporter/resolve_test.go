package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveFixture() []Record {
	return []Record{
		{ID: "a", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Category: "Elektronik"},
		{ID: "b", Date: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), Category: "Bücher"},
		{ID: "c", Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), Category: "Haushalt"},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestResolveRecords_SelectedIDs(t *testing.T) {
	records, fellBack := ResolveRecords(resolveFixture(), Options{
		SelectedIDs: []string{"b", "c"},
	})

	assert.False(t, fellBack)
	assert.Equal(t, []string{"b", "c"}, ids(records))
}

func TestResolveRecords_SelectionFallsBackToAll(t *testing.T) {
	// None of the requested ids exist; the entire set is exported instead of
	// zero rows, and the fallback is reported.
	records, fellBack := ResolveRecords(resolveFixture(), Options{
		SelectedIDs: []string{"z"},
	})

	assert.True(t, fellBack)
	assert.Equal(t, []string{"a", "b", "c"}, ids(records))
}

func TestResolveRecords_SelectionIgnoresLowerTiers(t *testing.T) {
	// Record "a" is Elektronik; the category filter must not apply once the
	// explicit selection matched.
	records, fellBack := ResolveRecords(resolveFixture(), Options{
		SelectedIDs: []string{"a"},
		Filters:     &Filters{Category: "Bücher"},
	})

	assert.False(t, fellBack)
	assert.Equal(t, []string{"a"}, ids(records))
}

func TestResolveRecords_DisplayedInvoices(t *testing.T) {
	records, fellBack := ResolveRecords(resolveFixture(), Options{
		Filters: &Filters{DisplayedInvoices: []string{"c", "a"}},
	})

	assert.False(t, fellBack)
	assert.Equal(t, []string{"a", "c"}, ids(records))
}

func TestResolveRecords_SelectionBeatsDisplayed(t *testing.T) {
	records, _ := ResolveRecords(resolveFixture(), Options{
		SelectedIDs: []string{"b"},
		Filters:     &Filters{DisplayedInvoices: []string{"a", "c"}},
	})

	assert.Equal(t, []string{"b"}, ids(records))
}

func TestResolveRecords_DisplayedFallsBackToAll(t *testing.T) {
	records, fellBack := ResolveRecords(resolveFixture(), Options{
		Filters: &Filters{DisplayedInvoices: []string{"x", "y"}},
	})

	assert.True(t, fellBack)
	assert.Len(t, records, 3)
}

func TestResolveRecords_DateRange(t *testing.T) {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)

	records, fellBack := ResolveRecords(resolveFixture(), Options{
		Filters: &Filters{DateFrom: &from, DateTo: &to},
	})

	assert.False(t, fellBack)
	assert.Equal(t, []string{"b"}, ids(records))
}

func TestResolveRecords_DateBoundsInclusive(t *testing.T) {
	exact := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	records, _ := ResolveRecords(resolveFixture(), Options{
		Filters: &Filters{DateFrom: &exact, DateTo: &exact},
	})

	assert.Equal(t, []string{"b"}, ids(records))
}

func TestResolveRecords_CategorySubstringCaseInsensitive(t *testing.T) {
	records, fellBack := ResolveRecords(resolveFixture(), Options{
		Filters: &Filters{Category: "elektro"},
	})

	assert.False(t, fellBack)
	assert.Equal(t, []string{"a"}, ids(records))
}

func TestResolveRecords_FiltersAreConjunctive(t *testing.T) {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	// Date range matches b and c, category only matches c.
	records, _ := ResolveRecords(resolveFixture(), Options{
		Filters: &Filters{DateFrom: &from, Category: "haushalt"},
	})

	assert.Equal(t, []string{"c"}, ids(records))
}

func TestResolveRecords_EmptyFilterResultFallsBackToAll(t *testing.T) {
	records, fellBack := ResolveRecords(resolveFixture(), Options{
		Filters: &Filters{Category: "gibtesnicht"},
	})

	assert.True(t, fellBack)
	assert.Len(t, records, 3)
}

func TestResolveRecords_NoOptionsReturnsAll(t *testing.T) {
	records, fellBack := ResolveRecords(resolveFixture(), Options{})

	assert.False(t, fellBack)
	assert.Len(t, records, 3)
}

func TestResolveRecords_EmptyInput(t *testing.T) {
	records, fellBack := ResolveRecords(nil, Options{SelectedIDs: []string{"a"}})

	require.Empty(t, records)
	assert.False(t, fellBack)
}
