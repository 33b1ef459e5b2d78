package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Valid File", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.spotify]
client_id = "id"
client_secret = "secret"
redirect_uri = "http://localhost:9999/callback"

[server]
host = "0.0.0.0"
port = 9999

[export]
workers = 4
rate_limit = 2.5
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Credentials.Spotify.ClientID != "id" {
				t.Errorf("expected client_id 'id', got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Server.Addr() != "0.0.0.0:9999" {
				t.Errorf("unexpected addr %s", config.Server.Addr())
			}
			if config.Export.Workers != 4 {
				t.Errorf("expected 4 workers, got %d", config.Export.Workers)
			}
			if config.Export.RateLimit != 2.5 {
				t.Errorf("expected rate limit 2.5, got %f", config.Export.RateLimit)
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("Invalid TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("[[["), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Environment Overrides", func(t *testing.T) {
			t.Setenv("SPOTZIP_CLIENT_ID", "env-id")
			t.Setenv("SPOTZIP_DATABASE_PATH", "env.db")

			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[credentials.spotify]
client_id = "file-id"
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Credentials.Spotify.ClientID != "env-id" {
				t.Errorf("expected env override, got %s", config.Credentials.Spotify.ClientID)
			}
			if config.Database.Path != "env.db" {
				t.Errorf("expected env database path, got %s", config.Database.Path)
			}
		})
	})

	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.RedirectURI == "" {
			t.Error("expected default redirect URI")
		}
		if config.Export.Workers != 0 {
			t.Errorf("expected unbounded fan-out by default, got %d workers", config.Export.Workers)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected config file to exist: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})
}
