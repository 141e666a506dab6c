// This new test file verifies the configuration loading logic using Viper.

package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		// Ensure no config file exists for this test
		os.Remove("config.yml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if default values are set
		if cfg.Port != 3001 {
			t.Errorf("Expected default port 3001, got %d", cfg.Port)
		}
		if cfg.Database.Path != "./watcharr.db" {
			t.Errorf("Expected default db path './watcharr.db', got '%s'", cfg.Database.Path)
		}
		if cfg.Chat.SessionTTLMinutes != 30 {
			t.Errorf("Expected default session TTL of 30 minutes, got %d", cfg.Chat.SessionTTLMinutes)
		}
	})

	t.Run("Loads from config file", func(t *testing.T) {
		// Create a temporary config file for this test
		configContent := `
port: 9999
database:
  path: "/tmp/test.db"
library:
  statuses: ["seen", "queued"]
unknown_setting: "should be ignored"
`
		// Create the config file in the current directory so Viper can find it.
		// Note: `t.TempDir()` is not used here because Viper looks in the CWD.
		configPath := "config.yml"
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config file: %v", err)
		}
		// Clean up the file after the test
		defer os.Remove(configPath)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if values from the file were loaded
		if cfg.Port != 9999 {
			t.Errorf("Expected port 9999, got %d", cfg.Port)
		}
		if cfg.Database.Path != "/tmp/test.db" {
			t.Errorf("Expected db path '/tmp/test.db', got '%s'", cfg.Database.Path)
		}
		statuses := cfg.Statuses()
		if len(statuses) != 2 || statuses[0] != "seen" {
			t.Errorf("Expected configured statuses, got %v", statuses)
		}
		if cfg.Chat.SweepMinutes != 5 {
			t.Errorf("Expected default sweep interval of 5, got %d", cfg.Chat.SweepMinutes)
		}
	})
}

func TestStatusesFallback(t *testing.T) {
	cfg := &Config{}
	statuses := cfg.Statuses()
	if len(statuses) != 4 || statuses[0] != "watched" || statuses[2] != "plan_to_watch" {
		t.Errorf("Unexpected default statuses %v", statuses)
	}
}
