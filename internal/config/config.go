package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tatianab/onepage/internal/errors"
)

// Narrator providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultEnvFile is read, when present, before the environment is parsed.
const DefaultEnvFile = ".env"

// Config holds the application configuration.
type Config struct {
	Provider string `env:"NARRATOR_PROVIDER" envDefault:"gemini"`

	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	GeminiModel      string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiImageModel string `env:"GEMINI_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`

	Temperature float32       `env:"NARRATION_TEMPERATURE" envDefault:"0.9"`
	TurnTimeout time.Duration `env:"TURN_TIMEOUT" envDefault:"0"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads the configuration from environment variables. Missing
// env files are skipped; variables already set in the environment win over
// the files.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", f)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks provider credentials and numeric ranges.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("NARRATOR_PROVIDER", c.Provider, []string{ProviderGemini, ProviderOpenAI}, vb)
	switch c.Provider {
	case ProviderGemini:
		errors.ValidateRequired("GEMINI_API_KEY", c.GeminiAPIKey, vb)
	case ProviderOpenAI:
		errors.ValidateRequired("OPENAI_API_KEY", c.OpenAIAPIKey, vb)
		errors.ValidateRequired("OPENAI_BASE_URL", c.OpenAIBaseURL, vb)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		vb.Fieldf("NARRATION_TEMPERATURE", "must be between 0 and 2, got %v", c.Temperature)
	}
	if c.TurnTimeout < 0 {
		vb.Field("TURN_TIMEOUT", "must not be negative")
	}
	errors.ValidateEnum("LOG_LEVEL", c.LogLevel, []string{"debug", "info", "warn", "error"}, vb)

	return vb.Build()
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	return ParseLevel(c.LogLevel)
}

// ParseLevel maps a level name onto a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
