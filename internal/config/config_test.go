package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geritapp/gerit/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadEnvSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env.local"), "GERIT_CONFIG_TEST=ok\n")
	t.Setenv("GERIT_CONFIG_TEST", "")
	require.NoError(t, os.Unsetenv("GERIT_CONFIG_TEST"))

	n, err := config.LoadEnv([]string{filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ok", os.Getenv("GERIT_CONFIG_TEST"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "localhost:9090", cfg.Address())
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 720*time.Hour, cfg.Session.RememberTTL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, logrus.DebugLevel, cfg.Logger().GetLevel())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "70000")
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT out of range")
	assert.Contains(t, err.Error(), "invalid LOG_LEVEL")
}

func TestProductionAddressAndFormatter(t *testing.T) {
	t.Setenv("GO_APP_ENV", config.Production)
	t.Setenv("PORT", "8081")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Address())
	assert.IsType(t, &logrus.JSONFormatter{}, cfg.Logger().Formatter)
}
