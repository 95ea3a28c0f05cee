package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite://duelbot.db", cfg.DatabaseURL)
	assert.Equal(t, int64(2), cfg.Arena.Deposit)
	assert.Equal(t, 60*time.Second, cfg.Arena.LobbyTimeout)
	assert.Equal(t, 2*time.Second, cfg.Arena.TickInterval)
	assert.Equal(t, 5, cfg.Arena.TickCount)
	assert.Equal(t, 0.05, cfg.Arena.LevelWeight)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	contents := "DUELBOT_ARENA_DEPOSIT=7\nDUELBOT_ARENA_TICK_COUNT=3\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("DUELBOT_ARENA_TICK_COUNT", "9")
	t.Setenv("DUELBOT_ARENA_CONFIRM_TIMEOUT", "0s")
	t.Setenv("DUELBOT_ARENA_LEVEL_WEIGHT", "0")
	t.Cleanup(func() { os.Unsetenv("DUELBOT_ARENA_DEPOSIT") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Arena.Deposit)
	assert.Equal(t, 9, cfg.Arena.TickCount)
	assert.Equal(t, time.Duration(0), cfg.Arena.ConfirmTimeout)
	assert.Equal(t, 0.0, cfg.Arena.LevelWeight)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "negative deposit", mutate: func(c *Config) { c.Arena.Deposit = -1 }, wantErr: true},
		{name: "zero ticks", mutate: func(c *Config) { c.Arena.TickCount = 0 }, wantErr: true},
		{name: "zero lobby timeout", mutate: func(c *Config) { c.Arena.LobbyTimeout = 0 }, wantErr: true},
		{name: "websocket tls", mutate: func(c *Config) { c.WSTLSCertFile, c.WSTLSKeyFile = "cert.pem", "key.pem" }},
		{name: "websocket tls without key", mutate: func(c *Config) { c.WSTLSCertFile = "cert.pem" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Arena: ArenaConfig{
				Deposit:      2,
				LobbyTimeout: time.Minute,
				TickInterval: time.Second,
				TickCount:    5,
			}}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
