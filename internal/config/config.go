package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all server settings, loaded from the environment.
// A .env file in the working directory is applied first if present.
type Config struct {
	Host string `env:"ECOSHOT_HOST" envDefault:""`
	Port int    `env:"ECOSHOT_PORT" envDefault:"8080"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"ECOSHOT_LOG_LEVEL" envDefault:"info"`

	// StorageType selects the persistence backend: memory, redis or postgres
	StorageType string `env:"ECOSHOT_STORAGE" envDefault:"memory"`

	RedisURL string `env:"ECOSHOT_REDIS_URL" envDefault:"redis://localhost:6379"`

	PostgresDSN string `env:"ECOSHOT_POSTGRES_DSN" envDefault:""`

	// ClassifierURL is the base URL of the scene classification service.
	// Empty means the static development classifier is used.
	ClassifierURL     string        `env:"ECOSHOT_CLASSIFIER_URL" envDefault:""`
	ClassifierTimeout time.Duration `env:"ECOSHOT_CLASSIFIER_TIMEOUT" envDefault:"5s"`

	// DecoderCommand is the external QR scanner executable. Empty disables
	// the external decoder and shots resolve through classification only.
	DecoderCommand string        `env:"ECOSHOT_DECODER_CMD" envDefault:"opencv-qr-scan"`
	DecodeTimeout  time.Duration `env:"ECOSHOT_DECODE_TIMEOUT" envDefault:"3s"`

	// DefaultWinScore applies to matches created without a threshold
	DefaultWinScore int `env:"ECOSHOT_DEFAULT_WIN_SCORE" envDefault:"300"`

	// MatchTTL is how long an ended match stays in the registry before the
	// janitor removes it
	MatchTTL      time.Duration `env:"ECOSHOT_MATCH_TTL" envDefault:"1h"`
	SweepInterval time.Duration `env:"ECOSHOT_SWEEP_INTERVAL" envDefault:"5m"`

	ShutdownTimeout time.Duration `env:"ECOSHOT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from a .env file (if present) and the
// environment. Environment variables win over .env entries.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the server listens on
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
