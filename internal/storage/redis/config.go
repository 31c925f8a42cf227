package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// MatchTTL bounds how long mirrored match data lives in Redis.
	// Zero keeps it forever; the registry janitor deletes ended matches
	// explicitly either way.
	MatchTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MatchTTL:     24 * time.Hour,
	}
}
