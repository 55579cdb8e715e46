package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./deepdive.db" {
			t.Errorf("expected database path ./deepdive.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.Supabase.Schema != "content" {
			t.Errorf("expected schema content, got %s", config.Supabase.Schema)
		}
		if config.Reader.DefaultLanguage != "de" {
			t.Errorf("expected default language de, got %s", config.Reader.DefaultLanguage)
		}
		if config.Reader.WatchInterval.Duration != 30*time.Second {
			t.Errorf("expected watch interval 30s, got %v", config.Reader.WatchInterval)
		}
		if config.Theme.DefaultColor != "#0f3d2e" {
			t.Errorf("expected default color #0f3d2e, got %s", config.Theme.DefaultColor)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing fields", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[supabase]
url = "https://abc.supabase.co"
anon_key = "anon"

[reader]
default_language = "en"
watch_interval = "2m"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Supabase.URL != "https://abc.supabase.co" {
			t.Errorf("unexpected url %s", config.Supabase.URL)
		}
		if config.Reader.WatchInterval.Duration != 2*time.Minute {
			t.Errorf("expected 2m, got %v", config.Reader.WatchInterval)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected default port to survive, got %d", config.Server.Port)
		}
		if got := config.Supabase.FunctionsBaseURL(); got != "https://abc.supabase.co/functions/v1" {
			t.Errorf("unexpected functions url %s", got)
		}
	})

	t.Run("LoadConfig rejects bad duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[reader]\nwatch_interval = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("FunctionsBaseURL override", func(t *testing.T) {
		s := SupabaseConfig{URL: "https://abc.supabase.co", FunctionsURL: "http://localhost:3000/functions/v1/"}
		if got := s.FunctionsBaseURL(); got != "http://localhost:3000/functions/v1" {
			t.Errorf("unexpected functions url %s", got)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}

		config.Supabase.URL = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://env.supabase.co")
		t.Setenv("SUPABASE_ANON_KEY", "env-key")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Supabase.URL != "https://env.supabase.co" || config.Supabase.AnonKey != "env-key" {
			t.Errorf("env overrides not applied: %+v", config.Supabase)
		}
	})
}
