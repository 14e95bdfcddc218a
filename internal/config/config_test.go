package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "TREE_TEST_VAR",
			value: "test_value",
		},
		{
			name:      "variable not set",
			key:       "TREE_TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "30s", def: time.Second, expected: 30 * time.Second},
		{name: "invalid duration falls back", value: "soon", def: time.Second, expected: time.Second},
		{name: "unset falls back", value: "", def: 2 * time.Minute, expected: 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TREE_TEST_DURATION", tt.value)
			if got := mustDuration("TREE_TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true", value: "true", def: false, expected: true},
		{name: "numeric false", value: "0", def: true, expected: false},
		{name: "garbage falls back", value: "maybe", def: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TREE_TEST_BOOL", tt.value)
			if got := mustBool("TREE_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` 10.0.0.0/8, "192.168.1.1" ,, 'tree.local' `)
	want := []string{"10.0.0.0/8", "192.168.1.1", "tree.local"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TREE_JWT_SECRET", "s3cret")
	t.Setenv("TREE_LOG_LEVEL", "error")

	cfg := Load()

	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("DatabaseDriver = %q, want %q", cfg.DatabaseDriver, DriverSQLite)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() should be false without TREE_REDIS_ADDR")
	}
	if cfg.ShortenerURL == "" {
		t.Error("ShortenerURL should default to the public endpoint")
	}
}

func TestLoadPanicsWithoutSecret(t *testing.T) {
	t.Setenv("TREE_JWT_SECRET", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic when TREE_JWT_SECRET is missing")
		}
	}()
	Load()
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DatabaseDriver:     DriverSQLite,
			DatabaseURL:        "file::memory:",
			SessionTTL:         time.Hour,
			RefreshWindow:      10 * time.Minute,
			SeedReloadInterval: time.Hour,
			SessionGCInterval:  time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "postgres", mutate: func(c *Config) { c.DatabaseDriver = DriverPostgres }},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "mysql" }, wantErr: true},
		{name: "empty dsn", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: true},
		{name: "refresh window too large", mutate: func(c *Config) { c.RefreshWindow = 2 * time.Hour }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	c := &Config{JWTSecret: "top", RedisPassword: "pw", DatabaseDriver: DriverPostgres, DatabaseURL: "postgres://u:p@h/db"}
	r := c.Redacted()
	if r.JWTSecret == "top" || r.RedisPassword == "pw" || r.DatabaseURL == c.DatabaseURL {
		t.Errorf("Redacted() leaked secrets: %+v", r)
	}
	if c.JWTSecret != "top" {
		t.Error("Redacted() must not mutate the receiver")
	}
}
