package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server configuration read from the environment.
type Config struct {
	// DatabaseURL selects the profile store by scheme:
	// sqlite://<path>, postgresql://..., redis://... or memory://
	DatabaseURL string `env:"DUELBOT_DATABASE_URL" envDefault:"sqlite://duelbot.db"`
	WSPort      int    `env:"DUELBOT_WS_PORT"      envDefault:"8080"`
	APIPort     int    `env:"DUELBOT_API_PORT"     envDefault:"9090"`
	LogLevel    string `env:"DUELBOT_LOG_LEVEL"    envDefault:"info"`
	// WSTLSCertFile and WSTLSKeyFile serve websockets over TLS when both are set.
	WSTLSCertFile string `env:"DUELBOT_WS_TLS_CERT"`
	WSTLSKeyFile  string `env:"DUELBOT_WS_TLS_KEY"`
	// APIToken guards the API's write endpoints when set.
	APIToken string `env:"DUELBOT_API_TOKEN"`

	Arena   ArenaConfig
	CheckIn CheckInConfig
}

// ArenaConfig tunes the duel lifecycle.
type ArenaConfig struct {
	Deposit        int64         `env:"DUELBOT_ARENA_DEPOSIT"         envDefault:"2"`
	StartingPoints int64         `env:"DUELBOT_ARENA_STARTING_POINTS" envDefault:"100"`
	LobbyTimeout   time.Duration `env:"DUELBOT_ARENA_LOBBY_TIMEOUT"   envDefault:"60s"`
	// ConfirmTimeout of zero leaves pending games unconfirmed indefinitely.
	ConfirmTimeout time.Duration `env:"DUELBOT_ARENA_CONFIRM_TIMEOUT" envDefault:"60s"`
	TickInterval   time.Duration `env:"DUELBOT_ARENA_TICK_INTERVAL"   envDefault:"2s"`
	TickCount      int           `env:"DUELBOT_ARENA_TICK_COUNT"      envDefault:"5"`
	// LevelWeight of zero disables the level advantage.
	LevelWeight    float64       `env:"DUELBOT_ARENA_LEVEL_WEIGHT"    envDefault:"0.05"`
}

// CheckInConfig tunes the daily check-in reward.
type CheckInConfig struct {
	Reward     int64 `env:"DUELBOT_CHECKIN_REWARD"      envDefault:"20"`
	LevelBonus int64 `env:"DUELBOT_CHECKIN_LEVEL_BONUS" envDefault:"5"`
	Experience int64 `env:"DUELBOT_CHECKIN_EXPERIENCE"  envDefault:"40"`
}

// Load reads an optional .env file and then parses the environment.
// Variables already present in the environment take precedence over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would leave the arena unusable.
func (c *Config) Validate() error {
	if (c.WSTLSCertFile == "") != (c.WSTLSKeyFile == "") {
		return errors.New("websocket TLS needs both a certificate and a key file")
	}
	if c.Arena.Deposit < 0 {
		return fmt.Errorf("deposit must not be negative, got %d", c.Arena.Deposit)
	}
	if c.Arena.TickCount < 1 {
		return fmt.Errorf("tick count must be at least 1, got %d", c.Arena.TickCount)
	}
	if c.Arena.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.Arena.TickInterval)
	}
	if c.Arena.LobbyTimeout <= 0 {
		return fmt.Errorf("lobby timeout must be positive, got %s", c.Arena.LobbyTimeout)
	}
	if c.Arena.ConfirmTimeout < 0 {
		return fmt.Errorf("confirm timeout must not be negative, got %s", c.Arena.ConfirmTimeout)
	}
	return nil
}
