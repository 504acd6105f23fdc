package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the foliant front-end configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Search     SearchConfig     `yaml:"search"`
	ReadOnline ReadOnlineConfig `yaml:"read_online"`
	Keyboard   KeyboardConfig   `yaml:"keyboard"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds settings for the identity collaborator.
// The front-end sits behind an authenticating reverse proxy which
// forwards the logged-in username in a trusted header.
type AuthConfig struct {
	UserHeader string `yaml:"user_header"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// UpstreamConfig holds settings for the external search service.
// BaseURL is used for server-to-server commands; ExternalURL is the
// publicly reachable endpoint embedded into snippet image links.
type UpstreamConfig struct {
	BaseURL     string `yaml:"base_url"`
	ExternalURL string `yaml:"external_url"`
	TimeoutSec  int    `yaml:"timeout_sec"`
}

// SearchConfig holds system-wide defaults applied when a user has no
// stored preferences.
type SearchConfig struct {
	ResultsPerPage int    `yaml:"results_per_page"`
	SnippetsPerDoc int    `yaml:"snippets_per_doc"`
	Language       string `yaml:"language"`
}

// ReadOnlineConfig holds settings for "read online" snippet links.
// PageURL is a template with two verbs: document name (%s) and page
// number (%d). PageNumbering names the corpus page-number transform:
// "identity" or "one_based".
type ReadOnlineConfig struct {
	Enabled       bool   `yaml:"enabled"`
	PageURL       string `yaml:"page_url"`
	PageNumbering string `yaml:"page_numbering"`
}

// KeyboardConfig holds the default keyboard mapping served to users
// without a stored mapping of their own.
type KeyboardConfig struct {
	Enabled bool              `yaml:"enabled"`
	Mapping map[string]string `yaml:"mapping"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 30
	}
	if c.Upstream.ExternalURL == "" {
		c.Upstream.ExternalURL = c.Upstream.BaseURL
	}
	if c.Search.ResultsPerPage <= 0 {
		c.Search.ResultsPerPage = 10
	}
	if c.Search.SnippetsPerDoc <= 0 {
		c.Search.SnippetsPerDoc = 8
	}
	if c.Search.Language == "" {
		c.Search.Language = "yi"
	}
	if c.ReadOnline.PageNumbering == "" {
		c.ReadOnline.PageNumbering = "identity"
	}
	if c.Auth.UserHeader == "" {
		c.Auth.UserHeader = "X-Auth-User"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "foliant:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	switch c.ReadOnline.PageNumbering {
	case "identity", "one_based":
		// ok
	default:
		return fmt.Errorf(
			"read_online.page_numbering must be \"identity\" or \"one_based\", got %q",
			c.ReadOnline.PageNumbering,
		)
	}
	if c.ReadOnline.Enabled && c.ReadOnline.PageURL == "" {
		return fmt.Errorf("read_online.page_url is required when read_online is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
