package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const minimalConfig = `
cloud:
  email: user@example.com
  password: hunter2
  company_id: e4159dd6c88949ecab6feffb1c47efc1
`

func TestLoadMinimalConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Defaults fill everything the file omits.
	if cfg.MQTT.Broker.Host != "eu-tsmart-mqtt.topband-cloud.com" {
		t.Errorf("broker host = %q, want EU default", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Broker.Port != 8883 {
		t.Errorf("broker port = %d, want 8883", cfg.MQTT.Broker.Port)
	}
	if !cfg.MQTT.Broker.TLS {
		t.Error("broker TLS should default to true")
	}
	if cfg.Cloud.Timeout != 10 {
		t.Errorf("cloud timeout = %d, want 10", cfg.Cloud.Timeout)
	}
	if !cfg.Cloud.ValidateSSL {
		t.Error("validate_ssl should default to true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFileValuesOverrideDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
mqtt:
  broker:
    host: broker.local
    port: 1883
    tls: false
logging:
  level: debug
  format: text
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("broker host = %q, want broker.local", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Broker.TLS {
		t.Error("broker TLS should be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TOPBAND_CLOUD_PASSWORD", "from-env")
	t.Setenv("TOPBAND_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("TOPBAND_API_PORT", "9999")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cloud.Password != "from-env" {
		t.Errorf("password = %q, want env override", cfg.Cloud.Password)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("database path = %q, want env override", cfg.Database.Path)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("api port = %d, want 9999", cfg.API.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() should fail for missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing email",
			mutate:  func(c *Config) { c.Cloud.Email = "" },
			wantErr: "cloud.email",
		},
		{
			name:    "missing password",
			mutate:  func(c *Config) { c.Cloud.Password = "" },
			wantErr: "cloud.password",
		},
		{
			name:    "missing company id",
			mutate:  func(c *Config) { c.Cloud.CompanyID = "" },
			wantErr: "cloud.company_id",
		},
		{
			name:    "bad qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "bad broker port",
			mutate:  func(c *Config) { c.MQTT.Broker.Port = 70000 },
			wantErr: "mqtt.broker.port",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Cloud.Email = "user@example.com"
			cfg.Cloud.Password = "hunter2"
			cfg.Cloud.CompanyID = "company"
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
