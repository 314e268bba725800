package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for escposd.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database Database `yaml:"database"`
	MQTT     MQTT     `yaml:"mqtt"`
	API      API      `yaml:"api"`
	InfluxDB InfluxDB `yaml:"influxdb"`
	Logging  Logging  `yaml:"logging"`
	Defaults Defaults `yaml:"defaults"`
	Images   Images   `yaml:"images"`
	Security Security `yaml:"security"`
}

// Database contains SQLite database settings.
type Database struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTT contains MQTT broker connection settings.
type MQTT struct {
	Enabled   bool          `yaml:"enabled"`
	Broker    MQTTBroker    `yaml:"broker"`
	Auth      MQTTAuth      `yaml:"auth"`
	QoS       int           `yaml:"qos"`
	Reconnect MQTTReconnect `yaml:"reconnect"`
	Discovery Discovery     `yaml:"discovery"`
}

// MQTTBroker contains MQTT broker connection details.
type MQTTBroker struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuth contains MQTT authentication credentials.
type MQTTAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnect contains MQTT reconnection settings.
type MQTTReconnect struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// Discovery contains Home Assistant MQTT discovery settings.
type Discovery struct {
	// Enabled publishes retained discovery configs so Home Assistant picks
	// up one connectivity binary_sensor per registered printer.
	Enabled bool `yaml:"enabled"`

	// Prefix is the discovery topic prefix. Home Assistant's default is
	// "homeassistant".
	Prefix string `yaml:"prefix"`
}

// API contains HTTP API server settings.
type API struct {
	Host      string      `yaml:"host"`
	Port      int         `yaml:"port"`
	TLS       TLS         `yaml:"tls"`
	Timeouts  APITimeouts `yaml:"timeouts"`
	CORS      CORS        `yaml:"cors"`
	WebSocket WebSocket   `yaml:"websocket"`
}

// WebSocket contains WebSocket event stream settings.
type WebSocket struct {
	// PingInterval is the seconds between protocol-level pings.
	PingInterval int `yaml:"ping_interval"`

	// PongTimeout is the seconds a client may go silent before disconnect.
	PongTimeout int `yaml:"pong_timeout"`

	// MaxMessageSize is the largest inbound client message in bytes.
	MaxMessageSize int `yaml:"max_message_size"`
}

// TLS contains TLS certificate settings.
type TLS struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeouts contains HTTP timeout settings in seconds.
type APITimeouts struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORS contains Cross-Origin Resource Sharing settings.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// InfluxDB contains InfluxDB connection settings for job metrics.
type InfluxDB struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Logging contains logging settings.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Defaults contains fallback values applied to printers that do not
// configure their own.
type Defaults struct {
	// Codepage is the codepage used when a printer entry leaves it empty.
	Codepage string `yaml:"codepage"`

	// LineWidth is the column count used when a printer entry leaves it zero.
	LineWidth int `yaml:"line_width"`

	// Timeout is the per-operation transport timeout in seconds.
	Timeout float64 `yaml:"timeout"`

	// Align is the default text alignment (left, center, right).
	Align string `yaml:"align"`

	// Cut is the default cut mode appended to print operations
	// (none, partial, full).
	Cut string `yaml:"cut"`
}

// Images contains limits for the print_image operation.
type Images struct {
	// AllowedPaths lists directories local image paths may resolve under.
	// Empty means no local file access.
	AllowedPaths []string `yaml:"allowed_paths"`

	// MaxBytes caps the size of a fetched or loaded image. Zero uses the
	// built-in limit.
	MaxBytes int `yaml:"max_bytes"`
}

// Security contains security settings.
type Security struct {
	JWT   JWT   `yaml:"jwt"`
	Admin Admin `yaml:"admin"`
}

// JWT contains JWT token settings.
type JWT struct {
	Secret         string `yaml:"secret"`
	AccessTokenTTL int    `yaml:"access_token_ttl"`
}

// Admin contains the single administrative API login.
type Admin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ESCPOS_SECTION_KEY
// For example: ESCPOS_DATABASE_PATH, ESCPOS_MQTT_HOST
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: Database{
			Path:        "./data/escposd.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTT{
			Enabled: true,
			Broker: MQTTBroker{
				Host:     "localhost",
				Port:     1883,
				ClientID: "escposd",
			},
			QoS: 1,
			Reconnect: MQTTReconnect{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
			Discovery: Discovery{
				Enabled: true,
				Prefix:  "homeassistant",
			},
		},
		API: API{
			Host: "0.0.0.0",
			Port: 8853,
			Timeouts: APITimeouts{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			WebSocket: WebSocket{
				PingInterval:   30,
				PongTimeout:    60,
				MaxMessageSize: 65536,
			},
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Defaults: Defaults{
			Codepage:  "CP437",
			LineWidth: 48,
			Timeout:   4.0,
			Align:     "left",
			Cut:       "none",
		},
		Security: Security{
			JWT: JWT{
				AccessTokenTTL: 60,
			},
			Admin: Admin{
				Username: "admin",
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: ESCPOS_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ESCPOS_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("ESCPOS_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ESCPOS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ESCPOS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("ESCPOS_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	if v := os.Getenv("ESCPOS_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Secrets should come from the environment in production.
	if v := os.Getenv("ESCPOS_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
	if v := os.Getenv("ESCPOS_ADMIN_PASSWORD"); v != "" {
		cfg.Security.Admin.Password = v
	}
}

// minJWTSecretLength is the minimum accepted JWT secret length. Short
// secrets make forged API tokens practical.
const minJWTSecretLength = 32

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when MQTT is enabled")
	}
	if c.MQTT.Discovery.Enabled && c.MQTT.Discovery.Prefix == "" {
		errs = append(errs, "mqtt.discovery.prefix is required when discovery is enabled")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	switch c.Defaults.Align {
	case "left", "center", "right":
	default:
		errs = append(errs, "defaults.align must be left, center, or right")
	}
	switch c.Defaults.Cut {
	case "none", "partial", "full":
	default:
		errs = append(errs, "defaults.cut must be none, partial, or full")
	}
	if c.Defaults.Timeout <= 0 {
		errs = append(errs, "defaults.timeout must be positive")
	}

	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set ESCPOS_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetDefaultTimeout returns the default transport timeout as a Duration.
func (c *Config) GetDefaultTimeout() time.Duration {
	return time.Duration(c.Defaults.Timeout * float64(time.Second))
}
