package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/finance")
	t.Setenv("LEGAL_ENTITY_BANK_ID", "b-pj-001")
	t.Setenv("UNSET_CATEGORY_IS_FISCAL", "true")
	t.Setenv("ALERT_TO", "financeiro@studio.com.br, socios@studio.com.br ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.True(t, cfg.UnsetCategoryIsFiscal)
	assert.Equal(t, []string{"financeiro@studio.com.br", "socios@studio.com.br"}, cfg.AlertTo)
	assert.Equal(t, "Conformidade", cfg.ReportSheet)
	assert.False(t, cfg.AlertsEnabled())

	lc := cfg.GetLoggerConfig()
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, "stderr", lc.Output)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("DATA_SOURCE", "sheets")
	t.Setenv("GOOGLE_SHEET_URL", "")
	t.Setenv("LEGAL_ENTITY_BANK_ID", "b-pj-001")

	_, err := Load()
	assert.ErrorContains(t, err, "GOOGLE_SHEET_URL")

	t.Setenv("GOOGLE_SHEET_URL", "https://docs.google.com/spreadsheets/d/abc/edit")
	t.Setenv("LEGAL_ENTITY_BANK_ID", "")
	_, err = Load()
	assert.ErrorContains(t, err, "LEGAL_ENTITY_BANK_ID")

	t.Setenv("DATA_SOURCE", "mysql")
	_, err = Load()
	assert.ErrorContains(t, err, "DATA_SOURCE")
}
