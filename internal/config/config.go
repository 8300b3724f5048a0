package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed example.yaml
var exampleConfig embed.FS

// Config represents the complete zaptop configuration
type Config struct {
	Relay   Relay   `yaml:"relay"`
	Query   Query   `yaml:"query"`
	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Relay contains the relay connection settings
type Relay struct {
	URL              string `yaml:"url"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	EOSETimeoutMs    int    `yaml:"eose_timeout_ms"` // 0 waits for EOSE forever
}

// Query controls which receipts are fetched and how many are shown
type Query struct {
	Lookback         time.Duration `yaml:"lookback"`
	Limit            int           `yaml:"limit"`
	RequireRecipient bool          `yaml:"require_recipient"` // reject receipts without a "p" tag
}

// Output contains presentation options
type Output struct {
	GatewayURL  string `yaml:"gateway_url"`
	ShowReceipt bool   `yaml:"show_receipt"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// Metrics contains metrics export settings
type Metrics struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile path, empty disables
}

// ConnectTimeout returns the relay dial timeout
func (r *Relay) ConnectTimeout() time.Duration {
	if r.ConnectTimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(r.ConnectTimeoutMs) * time.Millisecond
}

// EOSETimeout returns how long to wait for end of stored events, 0 meaning no limit
func (r *Relay) EOSETimeout() time.Duration {
	if r.EOSETimeoutMs <= 0 {
		return 0
	}
	return time.Duration(r.EOSETimeoutMs) * time.Millisecond
}

// OverrideRelay replaces the relay URL with a host given on the command line.
// Bare hosts are turned into wss:// URLs.
func (c *Config) OverrideRelay(host string) {
	host = strings.TrimSpace(host)
	if host == "" {
		return
	}
	if strings.HasPrefix(host, "wss://") || strings.HasPrefix(host, "ws://") {
		c.Relay.URL = host
		return
	}
	c.Relay.URL = "wss://" + host
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Relay: Relay{
			URL:              "wss://relay.nostr.band",
			ConnectTimeoutMs: 10000,
		},
		Query: Query{
			Lookback: 12 * time.Hour,
			Limit:    10,
		},
		Output: Output{
			GatewayURL: "https://njump.me/",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyDefaults fills in missing configuration fields with sensible defaults
func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Relay.URL == "" {
		cfg.Relay.URL = defaults.Relay.URL
	}
	if cfg.Relay.ConnectTimeoutMs == 0 {
		cfg.Relay.ConnectTimeoutMs = defaults.Relay.ConnectTimeoutMs
	}
	if cfg.Query.Lookback == 0 {
		cfg.Query.Lookback = defaults.Query.Lookback
	}
	if cfg.Query.Limit == 0 {
		cfg.Query.Limit = defaults.Query.Limit
	}
	if cfg.Output.GatewayURL == "" {
		cfg.Output.GatewayURL = defaults.Output.GatewayURL
	}
	if !strings.HasSuffix(cfg.Output.GatewayURL, "/") {
		cfg.Output.GatewayURL += "/"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}
}

// Load reads the configuration at path, or starts from defaults when path is empty,
// then applies ZAPTOP_ environment overrides and validates the result
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads environment variables from the given files, or ./.env.
// Missing files are not an error; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if relay := os.Getenv("ZAPTOP_RELAY"); relay != "" {
		cfg.OverrideRelay(relay)
	}

	if limit := os.Getenv("ZAPTOP_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("ZAPTOP_LIMIT: %w", err)
		}
		cfg.Query.Limit = n
	}

	if lookback := os.Getenv("ZAPTOP_LOOKBACK"); lookback != "" {
		d, err := time.ParseDuration(lookback)
		if err != nil {
			return fmt.Errorf("ZAPTOP_LOOKBACK: %w", err)
		}
		cfg.Query.Lookback = d
	}

	if level := os.Getenv("ZAPTOP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}

	if path := os.Getenv("ZAPTOP_METRICS_TEXTFILE"); path != "" {
		cfg.Metrics.Textfile = path
	}

	return nil
}

// GetExampleConfig returns the embedded example configuration
func GetExampleConfig() ([]byte, error) {
	return exampleConfig.ReadFile("example.yaml")
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks if a configuration is valid
func Validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.Relay.URL, "wss://") && !strings.HasPrefix(cfg.Relay.URL, "ws://") {
		return fmt.Errorf("relay.url must start with ws:// or wss://: %s", cfg.Relay.URL)
	}
	if cfg.Relay.ConnectTimeoutMs < 0 {
		return fmt.Errorf("relay.connect_timeout_ms must not be negative")
	}
	if cfg.Relay.EOSETimeoutMs < 0 {
		return fmt.Errorf("relay.eose_timeout_ms must not be negative")
	}

	if cfg.Query.Lookback <= 0 {
		return fmt.Errorf("query.lookback must be positive")
	}
	if cfg.Query.Limit < 1 || cfg.Query.Limit > 1000 {
		return fmt.Errorf("query.limit must be between 1 and 1000")
	}

	if !strings.HasPrefix(cfg.Output.GatewayURL, "https://") && !strings.HasPrefix(cfg.Output.GatewayURL, "http://") {
		return fmt.Errorf("output.gateway_url must start with http:// or https://: %s", cfg.Output.GatewayURL)
	}

	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", cfg.Logging.Level)
	}
	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be one of: text, json)", cfg.Logging.Format)
	}

	return nil
}
