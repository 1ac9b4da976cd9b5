package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rechnungsprofi/internal/config"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(dir, "invoices.db")
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(dir, "app.log")
	cfg.Security.RateLimit.Enabled = false

	application, err := NewApplication(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { application.store.Close() })
	return application
}

func TestNewApplication(t *testing.T) {
	application := newTestApplication(t)

	assert.NotNil(t, application.Router)
	assert.NotNil(t, application.Server)
	assert.Equal(t, ":8080", application.Server.Addr)
}

func TestApplicationRoutes(t *testing.T) {
	application := newTestApplication(t)
	server := httptest.NewServer(application.Router)
	defer server.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{name: "liveness", method: http.MethodGet, path: "/api/health/live", wantStatus: http.StatusOK},
		{name: "export info", method: http.MethodGet, path: "/api/invoices/export/csv?action=info", wantStatus: http.StatusOK},
		{name: "list invoices", method: http.MethodGet, path: "/api/invoices/", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "unknown api route", method: http.MethodGet, path: "/api/nonsense", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestApplicationExportFlow(t *testing.T) {
	application := newTestApplication(t)
	server := httptest.NewServer(application.Router)
	defer server.Close()

	// Empty store with demo fallback enabled still yields an export.
	resp, err := http.Post(server.URL+"/api/invoices/export/csv", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
