package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL        string `toml:"redis_url"`
		TokenHeader     string `toml:"token_header"`
		SessionTTLHours int    `toml:"session_ttl_hours"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	School struct {
		AcademicYear string `toml:"academic_year"`
	} `toml:"school"`

	Reminder struct {
		Cron         string `toml:"cron"`
		DueSoonHours int    `toml:"due_soon_hours"`
	} `toml:"reminder"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("server port is not specified in config, use a value like :8080")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("database DSN is not specified in config")
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if config.Auth.SessionTTLHours == 0 {
		config.Auth.SessionTTLHours = 24
	}
	if config.Auth.TokenHeader == "" {
		config.Auth.TokenHeader = "Authorization"
	}
	if config.Reminder.Cron == "" {
		config.Reminder.Cron = "0 7 * * *"
	}
	if config.Reminder.DueSoonHours == 0 {
		config.Reminder.DueSoonHours = 24
	}

	return &config, nil
}
