package twig

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all configuration options for the twig engine
type Config struct {
	// CacheMaxSize is the maximum number of compiled templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// CacheSweepInterval is how often expired cache entries are purged in the background.
	// Only used when CacheTTL is set.
	CacheSweepInterval time.Duration
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// MaxDepth is the maximum nesting depth of if/for blocks
	MaxDepth int
	// OrderedConcat makes ~ concatenate left operand first. By default the operands
	// are joined in pop order (right operand first), matching existing templates.
	OrderedConcat bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:       100,
		CacheTTL:           0,
		CacheSweepInterval: time.Minute,
		LogLevel:           "off",
		MaxDepth:           64,
		OrderedConcat:      false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// TWIG_CACHE_MAX_SIZE
	if val := os.Getenv("TWIG_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// TWIG_CACHE_TTL
	if val := os.Getenv("TWIG_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// TWIG_CACHE_SWEEP_INTERVAL
	if val := os.Getenv("TWIG_CACHE_SWEEP_INTERVAL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheSweepInterval = duration
		}
	}

	// TWIG_LOG_LEVEL
	if val := os.Getenv("TWIG_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	// TWIG_MAX_DEPTH
	if val := os.Getenv("TWIG_MAX_DEPTH"); val != "" {
		if depth, err := strconv.Atoi(val); err == nil {
			config.MaxDepth = depth
		}
	}

	// TWIG_ORDERED_CONCAT
	if val := os.Getenv("TWIG_ORDERED_CONCAT"); val != "" {
		config.OrderedConcat = parseBool(val)
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.MaxDepth == 0 {
		config.MaxDepth = defaults.MaxDepth
	}

	if config.CacheSweepInterval == 0 {
		config.CacheSweepInterval = defaults.CacheSweepInterval
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	if c.CacheTTL > 0 && c.CacheSweepInterval <= 0 {
		return errors.New("cache sweep interval must be positive when a TTL is set")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MaxDepth <= 0 {
		return errors.New("max depth must be positive")
	}

	return nil
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
