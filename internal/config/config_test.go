package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"CONFIG_FILE", "PORT", "DATABASE_URL", "STORE_DRIVER", "ENABLE_METRICS",
	"CORS_ORIGIN", "LOG_LEVEL", "LOG_PRETTY", "SHUTDOWN_TIMEOUT", "ENVIRONMENT",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Expected default PORT 5000, got %s", cfg.Port)
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Errorf("Expected default STORE_DRIVER postgres, got %s", cfg.StoreDriver)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("Expected default CORS_ORIGIN *, got %s", cfg.CORSOrigin)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LOG_LEVEL info, got %s", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("Expected default SHUTDOWN_TIMEOUT 15s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.EnableMetrics {
		t.Error("Expected metrics disabled by default")
	}
	if cfg.Addr() != ":5000" {
		t.Errorf("Expected addr :5000, got %s", cfg.Addr())
	}
}

func TestLoadWithEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/items")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("ENABLE_METRICS", "true")
	t.Setenv("CORS_ORIGIN", "http://localhost:3000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_PRETTY", "1")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("Expected PORT from env, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://u:p@db:5432/items" {
		t.Errorf("Expected DATABASE_URL from env, got %s", cfg.DatabaseURL)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Errorf("Expected STORE_DRIVER memory, got %s", cfg.StoreDriver)
	}
	if !cfg.EnableMetrics || !cfg.LogPretty {
		t.Error("Expected boolean flags from env")
	}
	if cfg.CORSOrigin != "http://localhost:3000" {
		t.Errorf("Expected CORS_ORIGIN from env, got %s", cfg.CORSOrigin)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LOG_LEVEL debug, got %s", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 2*time.Second {
		t.Errorf("Expected SHUTDOWN_TIMEOUT 2s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadInvalidShutdownTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail with an unparsable SHUTDOWN_TIMEOUT")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "items.yaml")
	content := []byte(`port: "7000"
database_url: postgres://file@db/items
store_driver: postgres
enable_metrics: true
log_level: warn
shutdown_timeout: 5s
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Environment wins over the file.
	if cfg.Port != "7001" {
		t.Errorf("Expected PORT from env, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://file@db/items" {
		t.Errorf("Expected DATABASE_URL from file, got %s", cfg.DatabaseURL)
	}
	if !cfg.EnableMetrics {
		t.Error("Expected enable_metrics from file")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log_level from file, got %s", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected shutdown_timeout from file, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when CONFIG_FILE does not exist")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	// godotenv only fills variables that are absent, not merely empty.
	os.Unsetenv("CORS_ORIGIN")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=1234\nCORS_ORIGIN=https://items.example\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}

	if got := os.Getenv("PORT"); got != "9000" {
		t.Errorf("Expected existing PORT to be kept, got %s", got)
	}
	if got := os.Getenv("CORS_ORIGIN"); got != "https://items.example" {
		t.Errorf("Expected CORS_ORIGIN from .env, got %s", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Missing .env should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.DatabaseURL = "postgres://localhost/items"
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "memory store without database", mutate: func(c *Config) {
			c.StoreDriver = DriverMemory
			c.DatabaseURL = ""
		}},
		{name: "memory store in production", mutate: func(c *Config) {
			c.StoreDriver = DriverMemory
			c.Environment = "production"
		}, expectError: true},
		{name: "postgres without database url", mutate: func(c *Config) { c.DatabaseURL = "" }, expectError: true},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }, expectError: true},
		{name: "non-numeric port", mutate: func(c *Config) { c.Port = "http" }, expectError: true},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, expectError: true},
		{name: "zero port", mutate: func(c *Config) { c.Port = "0" }, expectError: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, expectError: true},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.ShutdownTimeout = 0 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.expectError {
				t.Errorf("Validate() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestLoadAndValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadAndValidate()
	if err != nil {
		t.Errorf("LoadAndValidate() failed with valid config: %v", err)
	}
	if cfg == nil {
		t.Error("LoadAndValidate() returned nil config with valid config")
	}

	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := LoadAndValidate(); err == nil {
		t.Error("LoadAndValidate() should fail without DATABASE_URL")
	}
}
