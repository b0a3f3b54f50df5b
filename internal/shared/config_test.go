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

		if config.Database.Path != "./sonata.db" {
			t.Errorf("expected database path ./sonata.db, got %s", config.Database.Path)
		}

		if config.API.BaseURL != "https://api.sonata.fm/api/v1" {
			t.Errorf("expected default base URL, got %s", config.API.BaseURL)
		}

		if config.API.PerPage != 20 {
			t.Errorf("expected per_page 20, got %d", config.API.PerPage)
		}

		if config.Player.Volume != 0.8 {
			t.Errorf("expected player volume 0.8, got %v", config.Player.Volume)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("creating config file again should fail with ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "http://localhost:9000/api/v1"
timeout_seconds = 3

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.API.BaseURL != "http://localhost:9000/api/v1" {
			t.Errorf("expected overridden base URL, got %s", config.API.BaseURL)
		}
		if config.API.Timeout() != 3*time.Second {
			t.Errorf("expected 3s timeout, got %v", config.API.Timeout())
		}
		if config.Player.Volume != 0.8 {
			t.Errorf("expected unset sections to keep defaults, got volume %v", config.Player.Volume)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadOrDefault", func(t *testing.T) {
		config := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if config.API.BaseURL != DefaultConfig().API.BaseURL {
			t.Errorf("expected defaults for missing file, got %s", config.API.BaseURL)
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		if got := (APIConfig{}).Timeout(); got != 15*time.Second {
			t.Errorf("expected 15s fallback timeout, got %v", got)
		}
		if got := (PlayerConfig{}).BufferSize(); got != 256*1024 {
			t.Errorf("expected 256KB fallback buffer, got %d", got)
		}
		if got := (PlayerConfig{BufferKB: 64}).BufferSize(); got != 64*1024 {
			t.Errorf("expected 64KB buffer, got %d", got)
		}
	})
}
