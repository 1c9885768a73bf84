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
		Port:            "8081",
		DataBackend:     "sqlite",
		SQLiteDBPath:    "./test.db",
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite backend config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "valid memory backend config",
			mutate: func(c *Config) {
				c.DataBackend = "memory"
				c.SQLiteDBPath = ""
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid data backend 'postgres': must be one of [sqlite memory sheets]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "sheets backend missing spreadsheet id",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSheetName = "Budget"
				c.GoogleServiceAccountJSON = "{}"
			},
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required when using sheets backend",
		},
		{
			name: "sheets backend missing credentials",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSpreadsheetID = "abc123"
				c.GoogleSheetName = "Budget"
			},
			wantErr:     true,
			errorString: "must be provided for sheets backend",
		},
		{
			name: "valid sheets backend with inline credentials",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSpreadsheetID = "abc123"
				c.GoogleSheetName = "Budget"
				c.GoogleServiceAccountJSON = `{"type":"service_account"}`
			},
			wantErr: false,
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "shutdown timeout too short",
			mutate:      func(c *Config) { c.ShutdownTimeout = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid shutdown timeout 10ms: must be at least 1 second",
		},
		{
			name: "multiple errors are reported together",
			mutate: func(c *Config) {
				c.Port = "abc"
				c.LogLevel = "loud"
			},
			wantErr:     true,
			errorString: "configuration validation failed:\n- invalid port 'abc': must be a number\n- invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Config.Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateWithFiles(t *testing.T) {
	tmpDir := t.TempDir()

	credsFile := filepath.Join(tmpDir, "service-account.json")
	if err := os.WriteFile(credsFile, []byte(`{"type":"service_account"}`), 0644); err != nil {
		t.Fatalf("Failed to create test credentials file: %v", err)
	}

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{name: "existing service account file", file: credsFile, wantErr: false},
		{name: "missing service account file", file: "/non/existent/file.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.DataBackend = "sheets"
			cfg.GoogleSpreadsheetID = "abc123"
			cfg.GoogleSheetName = "Budget"
			cfg.GoogleServiceAccountFile = tt.file
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCreatesSQLiteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := validConfig()
	cfg.SQLiteDBPath = filepath.Join(dir, "budget.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected database directory to be created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "GOOGLE_SHEET_NAME",
		"LOG_LEVEL", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/budget.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/budget.db", cfg.SQLiteDBPath)
		}
		if cfg.GoogleSheetName != "Budget" {
			t.Errorf("Load() GoogleSheetName = %v, want Budget", cfg.GoogleSheetName)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
		}
		if cfg.Addr() != ":8081" {
			t.Errorf("Addr() = %v, want :8081", cfg.Addr())
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "MEMORY")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("SHUTDOWN_TIMEOUT", "45s")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.ShutdownTimeout != 45*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 45s", cfg.ShutdownTimeout)
		}
	})

	t.Run("invalid duration uses default", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")

		if cfg := Load(); cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("Load() ShutdownTimeout = %v, want 30s (default for invalid input)", cfg.ShutdownTimeout)
		}
	})
}
