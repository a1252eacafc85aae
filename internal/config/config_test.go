package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcosfaria19/clarohub-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault tests the built-in defaults.
func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "claroflow", cfg.Database.DBName)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.InDelta(t, 1.0, cfg.Flow.UploadRPS, 0.001)
	assert.Equal(t, 3, cfg.Flow.UploadBurst)

	require.Len(t, cfg.Flow.DefaultSort, 1)
	assert.Equal(t, "updated_at", cfg.Flow.DefaultSort[0].Field)
	assert.Equal(t, "asc", cfg.Flow.DefaultSort[0].Direction)
}

// TestLoad_File tests loading an explicit config file.
func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: production
server:
  port: 9090
database:
  host: db.internal
  dbname: flow
log:
  level: info
flow:
  upload_rps: 2.5
  upload_burst: 5
  default_sort:
    - field: regional
      direction: desc
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, config.IsProduction(cfg))
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "flow", cfg.Database.DBName)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 2.5, cfg.Flow.UploadRPS, 0.001)
	require.Len(t, cfg.Flow.DefaultSort, 1)
	assert.Equal(t, "regional", cfg.Flow.DefaultSort[0].Field)

	// Unset keys still fall back to defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

// TestLoad_MissingFile tests the explicit-path error.
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestIsProduction tests the environment predicate.
func TestIsProduction(t *testing.T) {
	assert.False(t, config.IsProduction(nil))
	assert.False(t, config.IsProduction(&config.Config{Env: "development"}))
	assert.True(t, config.IsProduction(&config.Config{Env: "production"}))
}
