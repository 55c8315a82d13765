package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"finance/internal/logger"
)

// Data sources the CLI can load records from
const (
	SourcePostgres = "postgres"
	SourceSheets   = "sheets"
)

type Config struct {
	// Data source selection
	DataSource  string
	DatabaseURL string

	// Google Sheets Configuration
	GoogleSheetURL string
	ReportSheet    string

	// Reconciliation rules
	LegalEntityBankID     string
	UnsetCategoryIsFiscal bool

	// Conformance monitor
	MonitorSchedule string
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	AlertFrom       string
	AlertTo         []string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		DataSource:            strings.ToLower(getEnv("DATA_SOURCE", SourcePostgres)),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		ReportSheet:           getEnv("REPORT_SHEET", "Conformidade"),
		LegalEntityBankID:     getEnv("LEGAL_ENTITY_BANK_ID", ""),
		UnsetCategoryIsFiscal: getBool("UNSET_CATEGORY_IS_FISCAL", false),
		MonitorSchedule:       getEnv("MONITOR_SCHEDULE", "0 8 * * 1-5"),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              getEnv("SMTP_PORT", "587"),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		AlertFrom:             getEnv("ALERT_FROM", ""),
		AlertTo:               getList("ALERT_TO"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=%s", SourcePostgres)
		}
	case SourceSheets:
		if c.GoogleSheetURL == "" {
			return fmt.Errorf("GOOGLE_SHEET_URL is required when DATA_SOURCE=%s", SourceSheets)
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourcePostgres, SourceSheets, c.DataSource)
	}
	if c.LegalEntityBankID == "" {
		return fmt.Errorf("LEGAL_ENTITY_BANK_ID is required")
	}
	return nil
}

// AlertsEnabled reports whether enough SMTP settings are present to send mail
func (c *Config) AlertsEnabled() bool {
	return c.SMTPHost != "" && c.AlertFrom != "" && len(c.AlertTo) > 0
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
