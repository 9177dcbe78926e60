package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/omr-service/internal/detection"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(20<<20), cfg.Fetch.MaxBytes)
	assert.Equal(t, 40_000_000, cfg.Fetch.MaxPixels)
	assert.Zero(t, cfg.Fetch.Rate)
	assert.Equal(t, 1, cfg.Fetch.Burst)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, 20, cfg.Scan.DefaultQuestions)
	assert.Equal(t, 500, cfg.Scan.MaxQuestions)
	assert.Equal(t, "info", cfg.LogLevel)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, detection.DefaultParams(), params)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("OMR_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("OMR_FETCH_TIMEOUT", "45s")
	t.Setenv("OMR_FETCH_RATE", "2.5")
	t.Setenv("OMR_S3_ENABLED", "true")
	t.Setenv("OMR_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("OMR_DEFAULT_QUESTIONS", "50")
	t.Setenv("OMR_MAX_QUESTIONS", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 2.5, cfg.Fetch.Rate)
	assert.True(t, cfg.S3.Enabled)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.Equal(t, 50, cfg.Scan.DefaultQuestions)
	assert.Equal(t, 120, cfg.Scan.MaxQuestions)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OMR_LOG_LEVEL=debug\nPORT=7000\n"), 0644))

	t.Setenv("PORT", "9000")
	// godotenv sets variables directly; make sure they are cleaned up
	t.Setenv("OMR_LOG_LEVEL", "")
	os.Unsetenv("OMR_LOG_LEVEL")

	cfg, err := Load(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9000", cfg.Server.Port, "existing variables win over the file")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("OMR_DEFAULT_QUESTIONS", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MaxBelowDefaultQuestions(t *testing.T) {
	t.Setenv("OMR_DEFAULT_QUESTIONS", "30")
	t.Setenv("OMR_MAX_QUESTIONS", "10")
	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_ParamsFromProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("row_tolerance: 50\n"), 0644))

	cfg := &Config{Scan: ScanConfig{Profile: path}}
	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, 50, params.RowTolerance)

	cfg.Scan.Profile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Params()
	assert.Error(t, err)
}
