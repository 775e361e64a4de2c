package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
	assert.Equal(t, "reconciler", cfg.Storage.Bucket)
	assert.Equal(t, 30, cfg.Storage.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "exports/", cfg.Reconcile.ExportPrefix)
	assert.Equal(t, 50, cfg.Reconcile.HistoryLimit)
	assert.True(t, cfg.Reconcile.StoreExports)
	assert.False(t, cfg.Reconcile.Criteria.Root25)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("RECONCILE_CRITERIA_ROOT25", "true")
	t.Setenv("RECONCILE_CRITERIA_IGNORE_TRAUMA", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Reconcile.Criteria.Root25)
	assert.True(t, cfg.Reconcile.Criteria.IgnoreTrauma)
	assert.False(t, cfg.Reconcile.Criteria.Root59)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=console\nRECONCILE_EXPORT_PREFIX=out/\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("RECONCILE_EXPORT_PREFIX")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "out/", cfg.Reconcile.ExportPrefix)
}
