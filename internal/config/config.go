package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Morwran/yagpt"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

var (
	ErrMissingAPIKey            = errors.New("OPENAI_API_KEY не найден в окружении или .env")
	ErrMissingYandexCredentials = errors.New("YANDEX_OAUTH_TOKEN и YANDEX_FOLDER_ID обязательны для провайдера yandex")
)

type Config struct {
	// LLM settings
	LLMProvider      LLMProvider   `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string        `env:"YANDEX_FOLDER_ID"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"15s"`

	BrandName string `env:"BRAND_NAME" envDefault:"Shoply"`

	// Storage
	DataDir string `env:"DATA_DIR" envDefault:"data"`
	LogsDir string `env:"LOGS_DIR" envDefault:"logs"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load seeds the environment from the given .env files and parses it.
// Variables already present in the process environment are never overridden,
// and missing .env files are skipped.
func Load(envFiles ...string) (*Config, error) {
	for _, path := range envFiles {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LLMProvider = LLMProvider(strings.ToLower(strings.TrimSpace(string(cfg.LLMProvider))))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected provider has its credentials.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return ErrMissingAPIKey
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return ErrMissingYandexCredentials
		}
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	return nil
}

// Model returns the model identifier reported in session metadata.
func (c *Config) Model() string {
	if c.LLMProvider == ProviderYandex {
		return yagpt.YaModelLite
	}
	return c.OpenAIModel
}
