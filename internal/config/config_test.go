package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Interface)
	assert.Equal(t, 1600, cfg.SnapLen)
	assert.True(t, cfg.Promisc)
	assert.Zero(t, cfg.ReadTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.IdleInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.NoColor)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{"-i", "eth1", "--snaplen=256", "--promisc=false", "--read-timeout=250ms", "--no-color"})
	require.NoError(t, err)

	assert.Equal(t, "eth1", cfg.Interface)
	assert.Equal(t, 256, cfg.SnapLen)
	assert.False(t, cfg.Promisc)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	assert.True(t, cfg.NoColor)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("FRAMEWATCH_INTERFACE", "wlan0")
	t.Setenv("FRAMEWATCH_IDLE_INTERVAL", "50ms")
	t.Setenv("FRAMEWATCH_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "wlan0", cfg.Interface)
	assert.Equal(t, 50*time.Millisecond, cfg.IdleInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FRAMEWATCH_INTERFACE", "wlan0")

	cfg, err := Load([]string{"--interface", "eth0"})
	require.NoError(t, err)
	assert.Equal(t, "eth0", cfg.Interface)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level=verbose"}},
		{"negative timeout", []string{"--read-timeout=-1s"}},
		{"huge snaplen", []string{"--snaplen=300000"}},
		{"unknown flag", []string{"--filter=tcp"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args)
			assert.Error(t, err)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{SnapLen: -1}
	applyDefaults(cfg)

	assert.Equal(t, 1600, cfg.SnapLen)
	assert.Equal(t, 100*time.Millisecond, cfg.IdleInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}
