package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/kvernes/heatpumpmon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetArgs hides the test binary's own flags from config.Load.
func resetArgs(t *testing.T) {
	t.Helper()
	oldArgs := os.Args
	os.Args = []string{"heatpumpmon"}
	t.Cleanup(func() { os.Args = oldArgs })
}

func TestLoad(t *testing.T) {
	resetArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 60
listen_addr = ":9200"
log_level = "debug"
window_minutes = 20
window_samples = 25
max_gap_factor = 4
inertia_seconds = 240
history_db = "/path/to/history.db"
electrical_unit = "watt"
device_id = "altherma"
`)
	configPath := filepath.Join(tempDir, "heatpumpmon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("HEATPUMPMON_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Interval, "Expected Interval 60")
	assert.Equal(t, ":9200", cfg.ListenAddr, "Expected ListenAddr :9200")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.Equal(t, 20, cfg.WindowMinutes, "Expected WindowMinutes 20")
	assert.Equal(t, 25, cfg.WindowSamples, "Expected WindowSamples 25")
	assert.Equal(t, 4, cfg.MaxGapFactor, "Expected MaxGapFactor 4")
	assert.Equal(t, 240, cfg.InertiaSeconds, "Expected InertiaSeconds 240")
	assert.Equal(t, "/path/to/history.db", cfg.HistoryDB, "Expected HistoryDB /path/to/history.db")
	assert.Equal(t, "watt", cfg.ElectricalUnit, "Expected ElectricalUnit watt")
	assert.Equal(t, "altherma", cfg.DeviceID, "Expected DeviceID altherma")
}

func TestLoadDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("HEATPUMPMON_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval, "Expected default Interval")
	assert.Equal(t, config.DefaultListenAddr, cfg.ListenAddr, "Expected default ListenAddr")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, config.DefaultWindowMinutes, cfg.WindowMinutes, "Expected default WindowMinutes")
	assert.Equal(t, config.DefaultWindowSamples, cfg.WindowSamples, "Expected default WindowSamples")
	assert.Equal(t, config.DefaultMaxGapFactor, cfg.MaxGapFactor, "Expected default MaxGapFactor")
	assert.Equal(t, config.DefaultInertiaSeconds, cfg.InertiaSeconds, "Expected default InertiaSeconds")
	assert.Equal(t, config.DefaultElectricalUnit, cfg.ElectricalUnit, "Expected default ElectricalUnit auto")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	resetArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "heatpumpmon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("HEATPUMPMON_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestInvalidLogLevel(t *testing.T) {
	resetArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "heatpumpmon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("HEATPUMPMON_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestInvalidElectricalUnit(t *testing.T) {
	resetArgs(t)
	tempDir := t.TempDir()

	configContent := []byte(`
electrical_unit = "horsepower"
`)
	configPath := filepath.Join(tempDir, "heatpumpmon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("HEATPUMPMON_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "horsepower")
}

func TestWindowSamplesMustCoverSpan(t *testing.T) {
	resetArgs(t)
	tempDir := t.TempDir()

	// 12 samples at 60 s retain at most 11 minutes of a 20 minute window.
	configContent := []byte(`
interval = 60
window_minutes = 20
window_samples = 12
`)
	configPath := filepath.Join(tempDir, "heatpumpmon.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("HEATPUMPMON_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window_samples")
}

func TestLogLevelFlag(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "--log-level", "debug"}
	t.Setenv("HEATPUMPMON_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}
