package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "column relations", cfg.Sheets.RelationsKeyword)
	assert.Equal(t, "amazon", cfg.Sheets.AmazonKeyword)
	assert.Equal(t, "noon", cfg.Sheets.NoonKeyword)
	assert.Equal(t, "Summary Sheet", cfg.Sheets.SummaryName)
	assert.False(t, cfg.Audit.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SUMMARY_SHEET_NAME", "Merged")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Merged", cfg.Sheets.SummaryName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_AuditRequiresURL(t *testing.T) {
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("AUDIT_DATABASE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUDIT_DATABASE_URL")
}

func TestLoadConfig_AuditEnabled(t *testing.T) {
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("AUDIT_DATABASE_URL", "postgres://localhost/audit?sslmode=disable")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "postgres://localhost/audit?sslmode=disable", cfg.Audit.DatabaseURL)
}
