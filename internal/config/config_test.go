package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, 10*time.Second, cfg.ReconnectDelay)
	assert.Equal(t, "549", cfg.PhonePrefix)
	assert.Equal(t, 10, cfg.PhoneLocalDigits)
	assert.Equal(t, QRModeBoth, cfg.QRMode)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("RECONNECT_DELAY", "3")
	t.Setenv("QR_MODE", "IMAGE")
	t.Setenv("PHONE_PREFIX", "521")
	t.Setenv("PHONE_LOCAL_DIGITS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, 3*time.Second, cfg.ReconnectDelay)
	assert.Equal(t, QRModeImage, cfg.QRMode)
	assert.Equal(t, "521", cfg.PhonePrefix)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.env")
	require.NoError(t, os.WriteFile(path, []byte("RECONNECT_DELAY=250ms\nLOG_LEVEL=DEBUG\n"), 0o600))
	t.Setenv("RECONNECT_DELAY", "")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("RECONNECT_DELAY")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectDelay)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("delay", func(t *testing.T) {
		t.Setenv("RECONNECT_DELAY", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("qr mode", func(t *testing.T) {
		t.Setenv("QR_MODE", "ascii")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Setenv("PHONE_PREFIX", "+549")
		_, err := Load()
		assert.Error(t, err)
	})
}
