package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" validate:"required"`
	} `yaml:"database"`
	Window struct {
		Min     int `yaml:"min" validate:"min=1"`
		Max     int `yaml:"max" validate:"gtefield=Min"`
		Default int `yaml:"default"`
	} `yaml:"window"`
	Loader struct {
		DateColumns  []string `yaml:"date_columns" validate:"min=1,dive,required"`
		PriceColumns []string `yaml:"price_columns" validate:"min=1,dive,required"`
	} `yaml:"loader"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GOLDCAST_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DIGEST_CRON"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/prediksi.db"
	}
	if cfg.Window.Min == 0 {
		cfg.Window.Min = 2
	}
	if cfg.Window.Max == 0 {
		cfg.Window.Max = 5
	}
	if cfg.Window.Default == 0 {
		cfg.Window.Default = 3
	}
	if len(cfg.Loader.DateColumns) == 0 {
		cfg.Loader.DateColumns = []string{"Tanggal", "Date", "Year", "Tahun"}
	}
	if len(cfg.Loader.PriceColumns) == 0 {
		cfg.Loader.PriceColumns = []string{"Harga", "Price", "Close"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks field constraints and the window default against its bounds.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Window.Default < c.Window.Min || c.Window.Default > c.Window.Max {
		return fmt.Errorf("window.default %d must be within [%d, %d]", c.Window.Default, c.Window.Min, c.Window.Max)
	}
	return nil
}

// TelegramEnabled reports whether chat notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
