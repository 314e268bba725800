package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
database:
  path: "/tmp/escposd-test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "escposd-test"
  qos: 1
api:
  host: "127.0.0.1"
  port: 8853
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/escposd-test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/escposd-test.db")
	}
	if cfg.MQTT.Broker.ClientID != "escposd-test" {
		t.Errorf("MQTT.Broker.ClientID = %q, want %q", cfg.MQTT.Broker.ClientID, "escposd-test")
	}
	if cfg.API.Port != 8853 {
		t.Errorf("API.Port = %d, want 8853", cfg.API.Port)
	}
}

func TestLoad_Defaults(t *testing.T) {
	content := `
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Defaults.Codepage != "CP437" {
		t.Errorf("Defaults.Codepage = %q, want CP437", cfg.Defaults.Codepage)
	}
	if cfg.Defaults.LineWidth != 48 {
		t.Errorf("Defaults.LineWidth = %d, want 48", cfg.Defaults.LineWidth)
	}
	if cfg.Defaults.Align != "left" {
		t.Errorf("Defaults.Align = %q, want left", cfg.Defaults.Align)
	}
	if cfg.Defaults.Cut != "none" {
		t.Errorf("Defaults.Cut = %q, want none", cfg.Defaults.Cut)
	}
	if cfg.MQTT.Discovery.Prefix != "homeassistant" {
		t.Errorf("MQTT.Discovery.Prefix = %q, want homeassistant", cfg.MQTT.Discovery.Prefix)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	content := `
security:
  jwt:
    secret: "too-short"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected error for short JWT secret, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ESCPOS_DATABASE_PATH", "/tmp/env-override.db")
	t.Setenv("ESCPOS_MQTT_HOST", "broker.local")
	t.Setenv("ESCPOS_JWT_SECRET", "env-secret-key-at-least-32-chars-long")

	content := `
database:
  path: "/tmp/file.db"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/env-override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want broker.local", cfg.MQTT.Broker.Host)
	}
}

func TestValidate_BadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"bad qos", func(c *Config) { c.MQTT.QoS = 3 }},
		{"bad api port", func(c *Config) { c.API.Port = 0 }},
		{"bad align", func(c *Config) { c.Defaults.Align = "justify" }},
		{"bad cut", func(c *Config) { c.Defaults.Cut = "tear" }},
		{"zero timeout", func(c *Config) { c.Defaults.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Security.JWT.Secret = "test-secret-key-at-least-32-chars!"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() expected error for %s, got nil", tt.name)
			}
		})
	}
}
