package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		ShutdownTimeout:    30 * time.Second,
		DataBackend:        "memory",
		DataDir:            "data",
		Timezone:           "UTC",
		HTMXURL:            DefaultHTMXURL,
		RateLimitPerMinute: 60,
		RateLimitBurst:     10,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func TestConfig_Validate(t *testing.T) {
	with := func(f func(c *Config)) Config {
		c := validConfig()
		f(&c)
		return c
	}

	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid memory backend config",
			config:  validConfig(),
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			config: with(func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = "./test.db"
			}),
			wantErr: false,
		},
		{
			name: "valid redis backend config",
			config: with(func(c *Config) {
				c.DataBackend = "redis"
				c.RedisURL = "redis://localhost:6379/1"
			}),
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			config:      with(func(c *Config) { c.Port = "abc" }),
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			config:      with(func(c *Config) { c.Port = "0" }),
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			config:      with(func(c *Config) { c.Port = "70000" }),
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			config:      with(func(c *Config) { c.DataBackend = "sheets" }),
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory sqlite redis]",
		},
		{
			name: "sqlite backend missing database path",
			config: with(func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			}),
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "redis backend missing url",
			config: with(func(c *Config) {
				c.DataBackend = "redis"
			}),
			wantErr:     true,
			errorString: "Redis URL cannot be empty when using redis backend",
		},
		{
			name: "invalid redis url scheme",
			config: with(func(c *Config) {
				c.DataBackend = "redis"
				c.RedisURL = "http://localhost:6379"
			}),
			wantErr:     true,
			errorString: "invalid Redis URL scheme 'http': must be 'redis' or 'rediss'",
		},
		{
			name:        "unknown timezone",
			config:      with(func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }),
			wantErr:     true,
			errorString: "invalid timezone 'Mars/Olympus_Mons'",
		},
		{
			name:        "rate limit too small",
			config:      with(func(c *Config) { c.RateLimitPerMinute = 0 }),
			wantErr:     true,
			errorString: "invalid rate limit 0: must be at least 1 request per minute",
		},
		{
			name:        "rate limit too large",
			config:      with(func(c *Config) { c.RateLimitPerMinute = 20000 }),
			wantErr:     true,
			errorString: "invalid rate limit 20000: must be at most 10000 requests per minute",
		},
		{
			name:        "rate limit burst too small",
			config:      with(func(c *Config) { c.RateLimitBurst = 0 }),
			wantErr:     true,
			errorString: "invalid rate limit burst 0: must be at least 1",
		},
		{
			name:        "invalid log level",
			config:      with(func(c *Config) { c.LogLevel = "loud" }),
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid log format",
			config:      with(func(c *Config) { c.LogFormat = "xml" }),
			wantErr:     true,
			errorString: "invalid log format 'xml': must be 'text' or 'json'",
		},
		{
			name:        "shutdown timeout too short",
			config:      with(func(c *Config) { c.ShutdownTimeout = 500 * time.Millisecond }),
			wantErr:     true,
			errorString: "invalid shutdown timeout 500ms: must be at least 1 second",
		},
		{
			name:        "shutdown timeout too long",
			config:      with(func(c *Config) { c.ShutdownTimeout = time.Hour }),
			wantErr:     true,
			errorString: "invalid shutdown timeout 1h0m0s: must be at most 5 minutes",
		},
		{
			name:    "local htmx path",
			config:  with(func(c *Config) { c.HTMXURL = "/static/htmx.min.js" }),
			wantErr: false,
		},
		{
			name:        "plain http htmx URL",
			config:      with(func(c *Config) { c.HTMXURL = "http://unpkg.com/htmx.org" }),
			wantErr:     true,
			errorString: "absolute URLs must use https",
		},
		{
			name:        "relative htmx path",
			config:      with(func(c *Config) { c.HTMXURL = "htmx.js" }),
			wantErr:     true,
			errorString: "paths must start with '/'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	c := validConfig()
	c.Port = "x"
	c.LogFormat = "xml"
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := strings.Count(err.Error(), "\n- "); got != 2 {
		t.Errorf("expected 2 collected errors, got %d: %v", got, err)
	}
}

func TestConfig_ValidateCreatesSQLiteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	c := validConfig()
	c.DataBackend = "sqlite"
	c.SQLiteDBPath = filepath.Join(dir, "paisa.db")
	if err := c.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected sqlite directory to be created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "REDIS_URL", "TIMEZONE",
		"RATE_LIMIT_PER_MINUTE", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "HTMX_URL", "PAISA_CONFIG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	t.Run("default values", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/paisa.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/paisa.db", cfg.SQLiteDBPath)
		}
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 60", cfg.RateLimitPerMinute)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if cfg.HTMXURL != DefaultHTMXURL {
			t.Errorf("Load() HTMXURL = %v, want %v", cfg.HTMXURL, DefaultHTMXURL)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "SQLite")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "25")
		t.Setenv("SHUTDOWN_TIMEOUT", "45s")
		t.Setenv("TIMEZONE", "Asia/Kolkata")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.RateLimitPerMinute != 25 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 25", cfg.RateLimitPerMinute)
		}
		if cfg.ShutdownTimeout != 45*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 45s", cfg.ShutdownTimeout)
		}
		if cfg.Location().String() != "Asia/Kolkata" {
			t.Errorf("Location() = %v, want Asia/Kolkata", cfg.Location())
		}
	})

	t.Run("config file below environment", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "paisa.yaml")
		content := "port: \"7000\"\ndata_backend: redis\nredis_url: redis://cache:6379/2\n"
		if err := os.WriteFile(file, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv("PAISA_CONFIG", file)
		t.Setenv("PORT", "7100")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "7100" {
			t.Errorf("env should override file: Port = %v", cfg.Port)
		}
		if cfg.DataBackend != "redis" || cfg.RedisURL != "redis://cache:6379/2" {
			t.Errorf("file values not applied: %+v", cfg)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("PAISA_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := Load(); err == nil {
			t.Errorf("Load() expected error for missing config file")
		}
	})
}
