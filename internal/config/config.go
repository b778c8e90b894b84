package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	RawLogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level

	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"redis"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"./data/adventure.db"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	LockTTL        time.Duration `env:"LOCK_TTL" envDefault:"30s"`

	Story  string `env:"STORY" envDefault:"zork"`
	Parser string `env:"PARSER" envDefault:"rules"`

	LLMProvider      string        `env:"LLM_PROVIDER" envDefault:"none"`
	ModelName        string        `env:"MODEL_NAME"`
	AnthropicAPIKey  string        `env:"ANTHROPIC_API_KEY"`
	VeniceAPIKey     string        `env:"VENICE_API_KEY"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	NarrationTimeout time.Duration `env:"NARRATION_TIMEOUT" envDefault:"5s"`
	ContentRating    string        `env:"CONTENT_RATING" envDefault:"PG13"`

	WorkerID string `env:"WORKER_ID"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.RawLogLevel)
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)
	cfg.StorageBackend = strings.ToLower(cfg.StorageBackend)
	cfg.Parser = strings.ToLower(cfg.Parser)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the hosts cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case "none", "":
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic"))
		}
	case "venice":
		if c.VeniceAPIKey == "" {
			errs = append(errs, errors.New("VENICE_API_KEY is required when LLM_PROVIDER=venice"))
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when LLM_PROVIDER=gemini"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q (supported: none, anthropic, venice, gemini)", c.LLMProvider))
	}

	switch c.StorageBackend {
	case "redis", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q (supported: redis, sqlite)", c.StorageBackend))
	}

	switch c.Parser {
	case "rules":
	case "llm":
		if c.LLMProvider == "none" || c.LLMProvider == "" {
			errs = append(errs, errors.New("PARSER=llm needs an LLM_PROVIDER"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PARSER %q (supported: rules, llm)", c.Parser))
	}
	return errors.Join(errs...)
}

// HasLLM reports whether an LLM provider is configured.
func (c *Config) HasLLM() bool {
	return c.LLMProvider != "none" && c.LLMProvider != ""
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
