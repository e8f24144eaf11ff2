// ABOUTME: Configuration loader for the shopfront client
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// API
	APIURL      string // base URL of the storefront API
	HTTPTimeout int    // seconds, per-request timeout (default 30)

	// Local state
	ConfigDir string // directory holding the token slot and debug log

	// Product cache
	ProductTTL int // seconds, TTL for cached product lookups (default 60)
}

func Load() (*Config, error) {
	// .env is optional; real env vars take precedence either way
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:      ensureScheme(getEnv("SHOPFRONT_API_URL", "http://localhost:8080")),
		HTTPTimeout: getEnvInt("SHOPFRONT_HTTP_TIMEOUT", 30),
		ConfigDir:   getEnv("SHOPFRONT_CONFIG_DIR", DefaultConfigDir()),
		ProductTTL:  getEnvInt("SHOPFRONT_PRODUCT_TTL", 60),
	}

	if cfg.HTTPTimeout < 1 || cfg.HTTPTimeout > 600 {
		return nil, fmt.Errorf("SHOPFRONT_HTTP_TIMEOUT must be between 1 and 600, got %d", cfg.HTTPTimeout)
	}
	if cfg.ProductTTL < 1 || cfg.ProductTTL > 3600 {
		return nil, fmt.Errorf("SHOPFRONT_PRODUCT_TTL must be between 1 and 3600, got %d", cfg.ProductTTL)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shopfront")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shopfront")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
