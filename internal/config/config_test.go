package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_SOURCE", "DATASET_PATH", "DATABASE_PATH", "LOG_LEVEL", "HEALTH_ADDR", "DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource != SourceJSON || cfg.DatasetPath != "transactions.json" || cfg.DatabasePath != "transaction.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HealthAddr != ":8080" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("DATA_SOURCE", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown data source")
	}
}

func TestLoadSQLiteSource(t *testing.T) {
	t.Setenv("DATA_SOURCE", "SQLite")
	t.Setenv("DATABASE_PATH", "/tmp/tx.db")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource != SourceSQLite || cfg.DatabasePath != "/tmp/tx.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateDiscord(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateDiscord(); !errors.Is(err, ErrMissingBotToken) {
		t.Fatalf("want ErrMissingBotToken, got %v", err)
	}
	cfg.DiscordBotToken = "token"
	if err := cfg.ValidateDiscord(); !errors.Is(err, ErrMissingChannelID) {
		t.Fatalf("want ErrMissingChannelID, got %v", err)
	}
	cfg.DiscordChannelId = "123"
	if err := cfg.ValidateDiscord(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TXA_TEST_DATASET=from-file.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TXA_TEST_DATASET", "")
	os.Unsetenv("TXA_TEST_DATASET")

	if err := LoadEnvFile(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("TXA_TEST_DATASET"); got != "from-file.json" {
		t.Fatalf("want value from .env, got %q", got)
	}
}
