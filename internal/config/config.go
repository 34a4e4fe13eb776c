package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Defaults
const (
	DefaultName         = "tmdb-mcp-server"
	DefaultVersion      = "1.0.0"
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/"
	DefaultUserAgent    = DefaultName + "/" + DefaultVersion
	DefaultHost         = ""
	DefaultPort         = 12010
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Environment variables read by ApplyEnv
const (
	EnvAPIKey       = "TMDB_API_KEY"
	EnvBaseURL      = "TMDB_BASE_URL"
	EnvImageBaseURL = "TMDB_IMAGE_BASE_URL"
	EnvHost         = "HOST"
	EnvPort         = "PORT"
	EnvLogLevel     = "LOG_LEVEL"
)

// Config holds the complete application configuration
type Config struct {
	// Application information
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`

	// Upstream catalog API
	TMDB TMDBConfig `yaml:"tmdb" json:"tmdb"`

	// HTTP transport
	HTTP *HTTPConfig `yaml:"http,omitempty" json:"http,omitempty"`

	// Logging configuration
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format,omitempty" json:"log_format,omitempty"`
}

// TMDBConfig holds the upstream API settings
type TMDBConfig struct {
	APIKey       string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url" json:"base_url"`
	ImageBaseURL string `yaml:"image_base_url" json:"image_base_url"`
	UserAgent    string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// HTTPConfig holds the HTTP listener settings
type HTTPConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Name:    DefaultName,
		Version: DefaultVersion,
		TMDB: TMDBConfig{
			BaseURL:      DefaultBaseURL,
			ImageBaseURL: DefaultImageBaseURL,
			UserAgent:    DefaultUserAgent,
		},
		HTTP: &HTTPConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse based on file extension
	config := DefaultConfig()
	ext := filepath.Ext(configPath)

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if config.HTTP == nil {
		config.HTTP = DefaultConfig().HTTP
	}

	return config, nil
}

// Load resolves the configuration: defaults, then the optional file, then
// .env files, then the process environment. Flags are applied by the caller
// before Validate.
func Load(configPath string, envFiles ...string) (*Config, error) {
	config := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnvFiles loads .env style files into the process environment.
// Variables already set are kept and missing files are skipped.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok {
		c.TMDB.APIKey = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.TMDB.BaseURL = v
	}
	if v, ok := lookup(EnvImageBaseURL); ok && v != "" {
		c.TMDB.ImageBaseURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}

	if c.HTTP == nil {
		c.HTTP = DefaultConfig().HTTP
	}
	if v, ok := lookup(EnvHost); ok {
		c.HTTP.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.HTTP.Port = port
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name is required")
	}

	if c.Version == "" {
		return fmt.Errorf("application version is required")
	}

	if c.TMDB.APIKey == "" {
		return fmt.Errorf("%s must be defined in your environment variables", EnvAPIKey)
	}

	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("TMDB base URL is required")
	}

	if c.HTTP != nil && (c.HTTP.Port < 0 || c.HTTP.Port > 65535) {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}

	return nil
}

// Redacted returns a copy safe to print, with the API key masked
func (c *Config) Redacted() *Config {
	copied := *c
	if c.HTTP != nil {
		http := *c.HTTP
		copied.HTTP = &http
	}
	if copied.TMDB.APIKey != "" {
		copied.TMDB.APIKey = "****"
	}
	return &copied
}
