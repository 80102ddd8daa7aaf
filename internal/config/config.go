// Package config loads shoppro settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	APIURL   string
	WebURL   string
	Home     string // directory for the session file and the log
	LogLevel string
	Timeout  time.Duration
	PageSize int
}

// SessionPath is the session file inside Home.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Home, "session.json")
}

// LogPath is the log file inside Home.
func (c *Config) LogPath() string {
	return filepath.Join(c.Home, "shoppro.log")
}

// Load reads .env from the working directory, when present, then the
// environment.
func Load() *Config {
	_ = godotenv.Load() // silently ignore if .env doesn't exist
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() *Config {
	return &Config{
		APIURL:   strings.TrimRight(envOrDefault("SHOPPRO_API_URL", "http://localhost:8080"), "/"),
		WebURL:   envOrDefault("SHOPPRO_WEB_URL", "http://localhost:5173"),
		Home:     envOrDefault("SHOPPRO_HOME", defaultHome()),
		LogLevel: envOrDefault("SHOPPRO_LOG_LEVEL", "info"),
		Timeout:  envOrDefaultDuration("SHOPPRO_TIMEOUT", 30*time.Second),
		PageSize: envOrDefaultInt("SHOPPRO_PAGE_SIZE", 12),
	}
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shoppro"
	}
	return filepath.Join(home, ".shoppro")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
