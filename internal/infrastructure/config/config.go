package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Topband bridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Cloud     CloudConfig     `yaml:"cloud"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CloudConfig contains Topband cloud API settings.
type CloudConfig struct {
	// UserBaseURL is the base URL of the user/account API.
	UserBaseURL string `yaml:"user_base_url"`

	// DeviceBaseURL is the base URL of the device API.
	DeviceBaseURL string `yaml:"device_base_url"`

	// Email and Password are the account credentials. The password is
	// MD5-hashed before it is sent, matching the vendor app.
	Email    string `yaml:"email"`
	Password string `yaml:"password"`

	// CompanyID selects the vendor brand (each white-label brand has its own).
	CompanyID string `yaml:"company_id"`

	// HomeID selects the family whose devices are bridged. If empty, the
	// first family returned by the cloud is used.
	HomeID string `yaml:"home_id"`

	// Timeout is the per-request HTTP timeout in seconds.
	Timeout int `yaml:"timeout"`

	// ValidateSSL disables certificate verification when false.
	// Only set to false for debugging against intercepting proxies.
	ValidateSSL bool `yaml:"validate_ssl"`

	// RefreshMargin is how many minutes before token expiry a refresh is
	// attempted.
	RefreshMargin int `yaml:"refresh_margin"`
}

// MQTTConfig contains vendor MQTT broker connection settings.
// Authentication is derived from the cloud token at connect time, so there
// is no static username/password section.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	TLS  bool   `yaml:"tls"`

	// ClientIDPrefix is prefixed to a random UUID to form the client ID,
	// so multiple bridge instances never collide on the vendor broker.
	ClientIDPrefix string `yaml:"client_id_prefix"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// DatabaseConfig contains SQLite database settings.
// The database holds only the cloud token pair; device state is never persisted.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains the diagnostics HTTP API settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket stream settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: TOPBAND_SECTION_KEY
// For example: TOPBAND_CLOUD_PASSWORD, TOPBAND_DATABASE_PATH
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
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
// Broker and API endpoints default to the EU vendor cluster.
func defaultConfig() *Config {
	return &Config{
		Cloud: CloudConfig{
			UserBaseURL:   "https://eu-tsmart-user-api.topband-cloud.com",
			DeviceBaseURL: "https://eu-tsmart-device-api.topband-cloud.com",
			Timeout:       10,
			ValidateSSL:   true,
			RefreshMargin: 30,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:           "eu-tsmart-mqtt.topband-cloud.com",
				Port:           8883,
				TLS:            true,
				ClientIDPrefix: "topband-bridge",
			},
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/topband-bridge.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8094,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: TOPBAND_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Cloud credentials - the usual way to keep secrets out of the YAML file
	if v := os.Getenv("TOPBAND_CLOUD_EMAIL"); v != "" {
		cfg.Cloud.Email = v
	}
	if v := os.Getenv("TOPBAND_CLOUD_PASSWORD"); v != "" {
		cfg.Cloud.Password = v
	}
	if v := os.Getenv("TOPBAND_CLOUD_COMPANY_ID"); v != "" {
		cfg.Cloud.CompanyID = v
	}
	if v := os.Getenv("TOPBAND_CLOUD_HOME_ID"); v != "" {
		cfg.Cloud.HomeID = v
	}

	// Database
	if v := os.Getenv("TOPBAND_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("TOPBAND_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}

	// API
	if v := os.Getenv("TOPBAND_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("TOPBAND_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Cloud validation
	if c.Cloud.Email == "" {
		errs = append(errs, "cloud.email is required")
	}
	if c.Cloud.Password == "" {
		errs = append(errs, "cloud.password is required")
	}
	if c.Cloud.CompanyID == "" {
		errs = append(errs, "cloud.company_id is required")
	}
	if c.Cloud.UserBaseURL == "" {
		errs = append(errs, "cloud.user_base_url is required")
	}
	if c.Cloud.DeviceBaseURL == "" {
		errs = append(errs, "cloud.device_base_url is required")
	}
	if c.Cloud.Timeout <= 0 {
		errs = append(errs, "cloud.timeout must be positive")
	}

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port <= 0 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// API validation
	if c.API.Enabled {
		if c.API.Port <= 0 || c.API.Port > 65535 {
			errs = append(errs, "api.port must be between 1 and 65535")
		}
	}

	// Logging validation
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not valid", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
