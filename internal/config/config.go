package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
)

var (
	ErrMissingBotToken  = errors.New("DISCORD_BOT_TOKEN is not set")
	ErrMissingChannelID = errors.New("DISCORD_CHANNEL_ID is not set")
)

type Config struct {
	DataSource   string
	DatasetPath  string
	DatabasePath string
	LogLevel     string
	HealthAddr   string

	DiscordBotToken  string
	DiscordChannelId string
}

// LoadEnvFile reads variables from the given .env files into the process
// environment. A missing file is not an error; existing variables win.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	cfg := &Config{
		DataSource:       strings.ToLower(getEnv("DATA_SOURCE", SourceJSON)),
		DatasetPath:      getEnv("DATASET_PATH", "transactions.json"),
		DatabasePath:     getEnv("DATABASE_PATH", "transaction.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HealthAddr:       getEnv("HEALTH_ADDR", ":8080"),
		DiscordBotToken:  os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordChannelId: os.Getenv("DISCORD_CHANNEL_ID"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceJSON:
		if c.DatasetPath == "" {
			return fmt.Errorf("DATASET_PATH is required for the %s data source", SourceJSON)
		}
	case SourceSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the %s data source", SourceSQLite)
		}
	default:
		return fmt.Errorf("invalid DATA_SOURCE %q: must be %s or %s", c.DataSource, SourceJSON, SourceSQLite)
	}
	return nil
}

// ValidateDiscord checks the settings the bot command needs on top of Validate.
func (c *Config) ValidateDiscord() error {
	if c.DiscordBotToken == "" {
		return ErrMissingBotToken
	}
	if c.DiscordChannelId == "" {
		return ErrMissingChannelID
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
