package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"studentmanager/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_PATH", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_PORT", "EXPORT_PATH", "CHART_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := config.FromEnv()
	assert.Equal(t, config.Defaults(), cfg)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "management_studenti.db", cfg.DBPath)
	assert.Equal(t, "management_studenti_export.xlsx", cfg.ExportPath)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "yoru")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "studentdb")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("CHART_PATH", "out/chart.png")

	cfg := config.FromEnv()
	assert.Equal(t, config.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "out/chart.png", cfg.ChartPath)
	assert.Equal(t, "host=localhost user=yoru password=secret dbname=studentdb port=5433 sslmode=disable", cfg.PostgresDSN())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPORT_PATH=custom.xlsx\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("EXPORT_PATH")
	})

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "custom.xlsx", cfg.ExportPath)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = config.Load()
	assert.NoError(t, err)
}
