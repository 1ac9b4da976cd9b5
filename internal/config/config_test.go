package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "data/invoices.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 100000, cfg.Export.MaxSelected)
	assert.True(t, cfg.Export.DemoFallback)
	assert.Equal(t, 1000, cfg.Export.BulkChunkSize)
	assert.Equal(t, 4, cfg.Export.BulkWorkers)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "missing origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Storage.DatabasePath = "" },
			wantErr: "database path",
		},
		{
			name:    "zero max selected",
			mutate:  func(c *Config) { c.Export.MaxSelected = 0 },
			wantErr: "max selected",
		},
		{
			name:    "zero bulk workers",
			mutate:  func(c *Config) { c.Export.BulkWorkers = 0 },
			wantErr: "bulk workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}
