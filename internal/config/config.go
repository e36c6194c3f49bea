package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a setting is left empty
const (
	DefaultBackendURL     = "http://localhost:5000"
	DefaultServerAddr     = ":8080"
	DefaultTopicPrefix    = "energydash"
	DefaultSnapshotWidth  = 1280
	DefaultSnapshotHeight = 900
)

// Config holds the application configuration
type Config struct {
	Backend       BackendConfig  `yaml:"backend"`
	Server        ServerConfig   `yaml:"server,omitempty"`
	History       HistoryConfig  `yaml:"history,omitempty"`
	MQTT          MQTTConfig     `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig       `yaml:"home_assistant,omitempty"`
	Snapshot      SnapshotConfig `yaml:"snapshot,omitempty"`
}

// BackendConfig points at the energy monitor API
type BackendConfig struct {
	URL            string `yaml:"url"`                       // e.g., "http://localhost:5000"
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // 0 keeps the transport default
}

// ServerConfig holds settings for the web dashboard
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// HistoryConfig controls the local prediction history
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MQTTConfig holds MQTT broker settings for publishing predictions
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.predicted_electricity_bill"
}

// SnapshotConfig sets the browser viewport used for screenshots
type SnapshotConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Defaults returns a config with every default filled in, for writing a
// starter config file
func Defaults() *Config {
	return &Config{
		Backend:  BackendConfig{URL: DefaultBackendURL},
		Server:   ServerConfig{Addr: DefaultServerAddr},
		History:  HistoryConfig{Enabled: true},
		MQTT:     MQTTConfig{TopicPrefix: DefaultTopicPrefix},
		Snapshot: SnapshotConfig{Width: DefaultSnapshotWidth, Height: DefaultSnapshotHeight},
	}
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetBackendURL returns the backend origin, falling back to the local default
func (c *Config) GetBackendURL() string {
	if c.Backend.URL == "" {
		return DefaultBackendURL
	}
	return c.Backend.URL
}

// GetBackendTimeout returns the request timeout; zero means no client timeout
func (c *Config) GetBackendTimeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// GetServerAddr returns the dashboard listen address
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}

// GetTopicPrefix returns the MQTT topic prefix
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return DefaultTopicPrefix
	}
	return c.MQTT.TopicPrefix
}

// GetSnapshotSize returns the screenshot viewport size
func (c *Config) GetSnapshotSize() (width, height int) {
	width, height = c.Snapshot.Width, c.Snapshot.Height
	if width <= 0 {
		width = DefaultSnapshotWidth
	}
	if height <= 0 {
		height = DefaultSnapshotHeight
	}
	return width, height
}
