package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rechnungsprofi/internal/exporter"
)

type fakeInvoiceStore struct {
	invoices map[string]exporter.Record
	nextID   int
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{invoices: make(map[string]exporter.Record)}
}

func (f *fakeInvoiceStore) List(ctx context.Context) ([]exporter.Record, error) {
	records := make([]exporter.Record, 0, len(f.invoices))
	for _, rec := range f.invoices {
		records = append(records, rec)
	}
	return records, nil
}

func (f *fakeInvoiceStore) Get(ctx context.Context, id string) (exporter.Record, error) {
	rec, ok := f.invoices[id]
	if !ok {
		return exporter.Record{}, sql.ErrNoRows
	}
	return rec, nil
}

func (f *fakeInvoiceStore) Insert(ctx context.Context, record exporter.Record) (exporter.Record, error) {
	if record.ID == "" {
		f.nextID++
		record.ID = string(rune('a' + f.nextID - 1))
	}
	f.invoices[record.ID] = record
	return record, nil
}

func (f *fakeInvoiceStore) SoftDelete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.invoices[id]; !ok {
		return false, nil
	}
	delete(f.invoices, id)
	return true, nil
}

func (f *fakeInvoiceStore) Count(ctx context.Context) (int, error) {
	return len(f.invoices), nil
}

func newTestInvoiceService() (*InvoiceService, *fakeInvoiceStore) {
	store := newFakeInvoiceStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInvoiceService(store, logger), store
}

func validInput() InvoiceInput {
	return InvoiceInput{
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ProductName: "Bluetooth Kopfhoerer",
		EAN:         "4006381333931",
		Category:    "Elektronik",
		UnitsSold:   2,
		SalePrice:   59.98,
		Profit:      14.20,
	}
}

func TestInvoiceCreate(t *testing.T) {
	svc, store := newTestInvoiceService()

	record, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Bluetooth Kopfhoerer", record.ProductName)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInvoiceCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InvoiceInput)
	}{
		{name: "missing date", mutate: func(in *InvoiceInput) { in.Date = time.Time{} }},
		{name: "missing product name", mutate: func(in *InvoiceInput) { in.ProductName = "" }},
		{name: "non numeric ean", mutate: func(in *InvoiceInput) { in.EAN = "not-an-ean" }},
		{name: "ean too short", mutate: func(in *InvoiceInput) { in.EAN = "1234" }},
		{name: "negative units", mutate: func(in *InvoiceInput) { in.UnitsSold = -1 }},
		{name: "negative sale price", mutate: func(in *InvoiceInput) { in.SalePrice = -0.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestInvoiceService()
			input := validInput()
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestInvoiceCreate_NegativeCostsAllowed(t *testing.T) {
	svc, _ := newTestInvoiceService()

	input := validInput()
	input.Returns = -12.99
	input.Profit = -5.00

	_, err := svc.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestInvoiceGet(t *testing.T) {
	svc, _ := newTestInvoiceService()

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestInvoiceList_EmptyIsNotNil(t *testing.T) {
	svc, _ := newTestInvoiceService()

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestInvoiceDelete(t *testing.T) {
	svc, _ := newTestInvoiceService()

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}
