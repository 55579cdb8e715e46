package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Supabase SupabaseConfig `toml:"supabase"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Reader   ReaderConfig   `toml:"reader"`
	Theme    ThemeConfig    `toml:"theme"`
}

// SupabaseConfig points at the hosted data API.
type SupabaseConfig struct {
	URL           string `toml:"url"`
	AnonKey       string `toml:"anon_key"`
	FunctionsURL  string `toml:"functions_url"`
	Schema        string `toml:"schema"`
	StorageBucket string `toml:"storage_bucket"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string  `toml:"host"`
	Port              int     `toml:"port"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ReaderConfig contains client-side reading defaults.
type ReaderConfig struct {
	DefaultLanguage   string   `toml:"default_language"`
	WatchInterval     Duration `toml:"watch_interval"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	LogLevel          string   `toml:"log_level"`
}

// ThemeConfig contains the fallback brand colour.
type ThemeConfig struct {
	DefaultColor string `toml:"default_color"`
}

// Duration wraps [time.Duration] so TOML strings like "30s" decode.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// FunctionsBaseURL returns the base URL for the query handlers.
func (s SupabaseConfig) FunctionsBaseURL() string {
	if s.FunctionsURL != "" {
		return strings.TrimRight(s.FunctionsURL, "/")
	}
	return strings.TrimRight(s.URL, "/") + "/functions/v1"
}

// Validate checks the fields the reader and server cannot run without.
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("%w: supabase.url is required", ErrInvalidConfig)
	}
	if c.Reader.WatchInterval.Duration < 0 {
		return fmt.Errorf("%w: reader.watch_interval must not be negative", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides credentials with SUPABASE_URL and SUPABASE_ANON_KEY when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		c.Supabase.AnonKey = v
	}
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Fields missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
