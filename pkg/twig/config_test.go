package twig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CacheMaxSize != 100 {
		t.Errorf("DefaultConfig CacheMaxSize = %d, want 100", config.CacheMaxSize)
	}

	if config.CacheTTL != 0 {
		t.Errorf("DefaultConfig CacheTTL = %v, want 0", config.CacheTTL)
	}

	if config.CacheSweepInterval != time.Minute {
		t.Errorf("DefaultConfig CacheSweepInterval = %v, want 1m", config.CacheSweepInterval)
	}

	if config.LogLevel != "off" {
		t.Errorf("DefaultConfig LogLevel = %s, want off", config.LogLevel)
	}

	if config.MaxDepth != 64 {
		t.Errorf("DefaultConfig MaxDepth = %d, want 64", config.MaxDepth)
	}

	if config.OrderedConcat {
		t.Errorf("DefaultConfig OrderedConcat = true, want false")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig Validate() error = %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name: "cache max size",
			envVars: map[string]string{
				"TWIG_CACHE_MAX_SIZE": "50",
			},
			check: func(t *testing.T, config *Config) {
				if config.CacheMaxSize != 50 {
					t.Errorf("CacheMaxSize = %d, want 50", config.CacheMaxSize)
				}
			},
		},
		{
			name: "cache TTL and sweep interval",
			envVars: map[string]string{
				"TWIG_CACHE_TTL":            "5m",
				"TWIG_CACHE_SWEEP_INTERVAL": "30s",
			},
			check: func(t *testing.T, config *Config) {
				if config.CacheTTL != 5*time.Minute {
					t.Errorf("CacheTTL = %v, want 5m", config.CacheTTL)
				}
				if config.CacheSweepInterval != 30*time.Second {
					t.Errorf("CacheSweepInterval = %v, want 30s", config.CacheSweepInterval)
				}
			},
		},
		{
			name: "log level is lowercased",
			envVars: map[string]string{
				"TWIG_LOG_LEVEL": "DEBUG",
			},
			check: func(t *testing.T, config *Config) {
				if config.LogLevel != "debug" {
					t.Errorf("LogLevel = %s, want debug", config.LogLevel)
				}
			},
		},
		{
			name: "max depth",
			envVars: map[string]string{
				"TWIG_MAX_DEPTH": "8",
			},
			check: func(t *testing.T, config *Config) {
				if config.MaxDepth != 8 {
					t.Errorf("MaxDepth = %d, want 8", config.MaxDepth)
				}
			},
		},
		{
			name: "ordered concat",
			envVars: map[string]string{
				"TWIG_ORDERED_CONCAT": "yes",
			},
			check: func(t *testing.T, config *Config) {
				if !config.OrderedConcat {
					t.Error("OrderedConcat = false, want true")
				}
			},
		},
		{
			name: "invalid values keep defaults",
			envVars: map[string]string{
				"TWIG_CACHE_MAX_SIZE": "many",
				"TWIG_CACHE_TTL":      "soon",
				"TWIG_MAX_DEPTH":      "deep",
			},
			check: func(t *testing.T, config *Config) {
				if config.CacheMaxSize != 100 {
					t.Errorf("CacheMaxSize = %d, want 100", config.CacheMaxSize)
				}
				if config.CacheTTL != 0 {
					t.Errorf("CacheTTL = %v, want 0", config.CacheTTL)
				}
				if config.MaxDepth != 64 {
					t.Errorf("MaxDepth = %d, want 64", config.MaxDepth)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestNewConfigWithDefaults(t *testing.T) {
	config := NewConfigWithDefaults(&Config{CacheMaxSize: 5})

	if config.CacheMaxSize != 5 {
		t.Errorf("CacheMaxSize = %d, want 5", config.CacheMaxSize)
	}
	if config.LogLevel != "off" {
		t.Errorf("LogLevel = %q, want off", config.LogLevel)
	}
	if config.MaxDepth != 64 {
		t.Errorf("MaxDepth = %d, want 64", config.MaxDepth)
	}
	if config.CacheSweepInterval != time.Minute {
		t.Errorf("CacheSweepInterval = %v, want 1m", config.CacheSweepInterval)
	}

	if got := NewConfigWithDefaults(nil); got.CacheMaxSize != 100 {
		t.Errorf("NewConfigWithDefaults(nil) CacheMaxSize = %d, want 100", got.CacheMaxSize)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "negative cache size", modify: func(c *Config) { c.CacheMaxSize = -1 }, wantErr: true},
		{name: "negative TTL", modify: func(c *Config) { c.CacheTTL = -time.Second }, wantErr: true},
		{name: "TTL without sweep interval", modify: func(c *Config) { c.CacheTTL = time.Second; c.CacheSweepInterval = 0 }, wantErr: true},
		{name: "sweep interval unused without TTL", modify: func(c *Config) { c.CacheSweepInterval = 0 }},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "zero depth", modify: func(c *Config) { c.MaxDepth = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "YES", " on "} {
		if !parseBool(s) {
			t.Errorf("parseBool(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"false", "0", "no", ""} {
		if parseBool(s) {
			t.Errorf("parseBool(%q) = true, want false", s)
		}
	}
}
