package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Spotify     SpotifyAPIConfig  `toml:"spotify"`
	Export      ExportConfig      `toml:"export"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify application credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// SpotifyAPIConfig contains Web API client settings.
type SpotifyAPIConfig struct {
	// TimeoutSeconds bounds every API request. Zero disables the
	// timeout, matching the behavior of the hosted service.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// ExportConfig contains export engine tunables.
type ExportConfig struct {
	// Workers caps concurrent playlist reads. Zero launches one
	// goroutine per playlist.
	Workers int `toml:"workers"`
	// RateLimit is the maximum playlist reads per second. Zero
	// disables limiting.
	RateLimit float64 `toml:"rate_limit"`
}

// DatabaseConfig contains export-history database settings.
// An empty path disables history recording.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// envOverrides mirrors the credential fields that may be supplied through
// the environment (SPOTZIP_CLIENT_ID etc.), taking precedence over TOML.
type envOverrides struct {
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
	RedirectURI  string `envconfig:"REDIRECT_URI"`
	DatabasePath string `envconfig:"DATABASE_PATH"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment overrides. A missing file reports
// [ErrMissingConfig], a file that fails to parse reports
// [ErrInvalidConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	if err := applyEnv(&config); err != nil {
		panic(fmt.Sprintf("failed to read environment: %v", err))
	}
	return &config
}

func applyEnv(config *Config) error {
	var env envOverrides
	if err := envconfig.Process("spotzip", &env); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	if env.ClientID != "" {
		config.Credentials.Spotify.ClientID = env.ClientID
	}
	if env.ClientSecret != "" {
		config.Credentials.Spotify.ClientSecret = env.ClientSecret
	}
	if env.RedirectURI != "" {
		config.Credentials.Spotify.RedirectURI = env.RedirectURI
	}
	if env.DatabasePath != "" {
		config.Database.Path = env.DatabasePath
	}

	return nil
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
