package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalog/scraper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	cfg, err := config.LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://www.shl.com", cfg.Catalog.BaseURL)
	assert.Equal(t, "https://www.shl.com/products/product-catalog/", cfg.Catalog.CatalogURL())
	assert.Equal(t, "1", cfg.Catalog.Type)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, 2*time.Second, cfg.Catalog.PageDelay)
	assert.Equal(t, "Mozilla/5.0", cfg.Catalog.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 3, cfg.Catalog.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Catalog.RetryDelay)
	assert.Empty(t, cfg.Catalog.Proxies)

	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, "shl_individual_assignments.json", cfg.Output.JSONFile)
	assert.Equal(t, "shl_individual_assignments.csv", cfg.Output.CSVFile)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `catalog:
  base_url: http://localhost:8080/
  path: catalog
  page_size: 24
  retry_delay: 250ms
  proxies:
    - http://proxy-1:3128
    - http://proxy-2:3128
output:
  dir: /tmp/out
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/catalog", cfg.Catalog.CatalogURL())
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Catalog.RetryDelay)
	assert.Equal(t, []string{"http://proxy-1:3128", "http://proxy-2:3128"}, cfg.Catalog.Proxies)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Catalog.MaxAttempts, "unset keys keep their defaults")
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("CATALOG_MAX_ATTEMPTS", "5")
	t.Setenv("OUTPUT_JSON_FILE", "catalog.json")

	cfg, err := config.LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Catalog.MaxAttempts)
	assert.Equal(t, "catalog.json", cfg.Output.JSONFile)
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("catalog:\n  page_size: 0\n"), 0644))

	_, err := config.LoadFrom(dir)
	assert.Error(t, err)
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("catalog: [unclosed"), 0644))

	_, err := config.LoadFrom(dir)
	assert.Error(t, err)
}
