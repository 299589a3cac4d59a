// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	// Workbook sheet discovery
	Sheets SheetConfig

	// Optional warning/run audit sink
	Audit AuditConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// SheetConfig holds the case-insensitive keywords used to locate the input
// sheets and the name of the written summary sheet
type SheetConfig struct {
	RelationsKeyword string
	AmazonKeyword    string
	NoonKeyword      string
	SummaryName      string
}

// AuditConfig holds the optional Postgres audit sink settings
type AuditConfig struct {
	Enabled     bool
	DatabaseURL string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Sheets: SheetConfig{
			RelationsKeyword: getEnv("RELATIONS_SHEET_KEYWORD", "column relations"),
			AmazonKeyword:    getEnv("AMAZON_SHEET_KEYWORD", "amazon"),
			NoonKeyword:      getEnv("NOON_SHEET_KEYWORD", "noon"),
			SummaryName:      getEnv("SUMMARY_SHEET_NAME", "Summary Sheet"),
		},
		Audit: AuditConfig{
			Enabled:     getEnvAsBool("AUDIT_ENABLED", false),
			DatabaseURL: getEnv("AUDIT_DATABASE_URL", ""),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Sheets.RelationsKeyword == "" {
		return errors.New("relations sheet keyword cannot be empty")
	}

	if c.Sheets.AmazonKeyword == "" || c.Sheets.NoonKeyword == "" {
		return errors.New("source sheet keywords cannot be empty")
	}

	if c.Sheets.SummaryName == "" {
		return errors.New("summary sheet name cannot be empty")
	}

	if c.Audit.Enabled && c.Audit.DatabaseURL == "" {
		return errors.New("AUDIT_DATABASE_URL is required when AUDIT_ENABLED is set")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
