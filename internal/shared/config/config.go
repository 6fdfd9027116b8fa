package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime knob of the storefront, loaded once from env vars
// (with optional .env file, same as the DB layer does)
type Config struct {
	HTTPAddr string

	RedisAddr     string
	RedisPassword string
	StateCacheTTL time.Duration

	// DefaultExtendWindow is the anti-snipe trailing window W applied to new
	// listings that enable auto-extend
	DefaultExtendWindow time.Duration

	// LockWait bounds how long a bid submission waits for the per-auction
	// exclusive section before giving up as busy
	LockWait time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the configuration from the environment (singleton)
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		cfg = &Config{
			HTTPAddr:            getEnv("HTTP_ADDR", ":9000"),
			RedisAddr:           getEnv("REDIS_ADDR", ""),
			RedisPassword:       getEnv("REDIS_PASSWORD", ""),
			StateCacheTTL:       getDuration("STATE_CACHE_TTL", 2*time.Second),
			DefaultExtendWindow: getDuration("EXTEND_WINDOW", 5*time.Minute),
			LockWait:            getDuration("BID_LOCK_WAIT", 3*time.Second),
		}
	})
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	//accepts both "5m" style and plain seconds
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	panic(fmt.Sprintf("invalid duration for %s: %q", key, v))
}
