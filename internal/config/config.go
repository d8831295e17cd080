package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config keeps runtime settings for the bot and the CLI.
type Config struct {
	TelegramToken  string        `yaml:"telegram_token"  env:"TELEGRAM_TOKEN"`
	DatabaseURL    string        `yaml:"database_url"    env:"DATABASE_URL"    env-default:"tempowise.db"`
	ReportInterval time.Duration `yaml:"report_interval" env:"REPORT_INTERVAL" env-default:"5h"`
	ReportTime     string        `yaml:"report_time"     env:"REPORT_TIME"`
	Timezone       string        `yaml:"timezone"        env:"TIMEZONE"        env-default:"Local"`
	MetricsAddr    string        `yaml:"metrics_addr"    env:"METRICS_ADDR"`
	Log            LogConfig     `yaml:"log"`
	AI             AIConfig      `yaml:"ai"`
}

// LogConfig selects log verbosity and output format (json or console).
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// AIConfig configures the insight and tag generator.
type AIConfig struct {
	Provider        string        `yaml:"provider"          env:"AI_PROVIDER"       env-default:"none"`
	Model           string        `yaml:"model"             env:"AI_MODEL"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	OllamaURL       string        `yaml:"ollama_url"        env:"OLLAMA_URL"        env-default:"http://localhost:11434"`
	Timeout         time.Duration `yaml:"timeout"           env:"AI_TIMEOUT"        env-default:"60s"`
}

const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Load reads configuration from an optional YAML file and environment variables.
// The file path comes from CONFIG_PATH; ENV overrides YAML, YAML overrides defaults.
func Load() (Config, error) {
	var cfg Config

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}

	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed with defaults alone.
func (c Config) Validate() error {
	if c.ReportInterval < 0 {
		return fmt.Errorf("REPORT_INTERVAL must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	switch c.AI.Provider {
	case ProviderNone, "":
	case ProviderAnthropic:
		if c.AI.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for AI_PROVIDER=anthropic")
		}
	case ProviderOllama:
		if c.AI.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for AI_PROVIDER=ollama")
		}
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AI.Provider)
	}
	return nil
}

// RequireTelegram is checked only by commands that talk to Telegram.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return nil
}

// Location resolves the configured timezone used for period boundaries.
func (c Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Timezone)
	}
}
