package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/wordrecall/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"env" validate:"oneof=development production test"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db" validate:"required"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

type DBConfig struct {
	Driver       string        `mapstructure:"driver" validate:"oneof=sqlite3 postgres"`
	DSN          string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns int           `mapstructure:"max_open_conns" validate:"min=1,max=1000"`
	MaxIdleConns int           `mapstructure:"max_idle_conns" validate:"min=0,max=100"`
	ConnMaxLife  time.Duration `mapstructure:"conn_max_life" validate:"min=0"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ReminderConfig struct {
	// Hour of the local day at which the reminder for a schedule date fires
	Hour     int    `mapstructure:"hour" validate:"min=0,max=23"`
	Timezone string `mapstructure:"timezone" validate:"required"`

	// How often the serve process re-arms reminders from the database
	RearmInterval time.Duration `mapstructure:"rearm_interval" validate:"min=1m"`
}

// Location resolves the reminder timezone. "Local" means the host zone.
func (r ReminderConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "data/wordrecall.db")
	v.SetDefault("db.max_open_conns", 1)
	v.SetDefault("db.max_idle_conns", 1)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("reminder.hour", 9)
	v.SetDefault("reminder.timezone", "Local")
	v.SetDefault("reminder.rearm_interval", time.Hour)
}

var envBindings = map[string]string{
	"env":               "APP_ENV",
	"log.level":         "LOG_LEVEL",
	"db.driver":         "DB_DRIVER",
	"db.dsn":            "DB_DSN",
	"telegram.token":    "TELEGRAM_BOT_TOKEN",
	"openai.api_key":    "OPENAI_API_KEY",
	"openai.model":      "OPENAI_MODEL",
	"reminder.hour":     "REMINDER_HOUR",
	"reminder.timezone": "REMINDER_TIMEZONE",
}

// Init loads .env (if present), then the optional config file, then the
// environment, and validates the result. An empty path looks for
// configs/<CONFIG_NAME or "default">.{yaml,json,toml}.
func Init(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		configName := os.Getenv("CONFIG_NAME")
		if configName == "" {
			configName = "default"
		}
		v.AddConfigPath("configs")
		v.SetConfigName(configName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Reminder.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
