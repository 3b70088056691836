package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"rezumat/internal/fetcher"
	"rezumat/internal/summarizer"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

var (
	ErrMissingToken    = errors.New("TELEGRAM_TOKEN is required")
	ErrMissingAPIKey   = errors.New("API key for the selected LLM provider is required")
	ErrUnknownProvider = errors.New("LLM_PROVIDER must be anthropic or openai")
	ErrUnknownProfile  = errors.New("unknown summary profile")
)

type Config struct {
	TelegramToken string  `env:"TELEGRAM_TOKEN"`
	AllowedUsers  []int64 `env:"ALLOWED_USERS"`

	LLMProvider     string `env:"LLM_PROVIDER"      envDefault:"anthropic"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL"`

	SummaryLanguage string        `env:"SUMMARY_LANGUAGE"  envDefault:"Romanian"`
	DefaultProfile  string        `env:"DEFAULT_PROFILE"   envDefault:"medium"`
	BatchProfile    string        `env:"BATCH_PROFILE"     envDefault:"short"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT"       envDefault:"90s"`
	MaxContentChars int           `env:"MAX_CONTENT_CHARS" envDefault:"12000"`

	ReaderProxyURL  string        `env:"READER_PROXY_URL"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT"     envDefault:"20s"`
	FetchAttempts   int           `env:"FETCH_ATTEMPTS"    envDefault:"2"`
	FetchRetryDelay time.Duration `env:"FETCH_RETRY_DELAY" envDefault:"2s"`
	FetchRPS        float64       `env:"FETCH_RPS"         envDefault:"1"`
	BlockedDomains  []string      `env:"BLOCKED_DOMAINS"`

	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
}

// Load reads an optional .env file and parses the environment. A missing
// .env file is not an error.
func Load(log *slog.Logger, files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Info("No .env file is loaded", "error", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))

	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.TelegramToken) == "" {
		errs = append(errs, ErrMissingToken)
	}

	switch c.LLMProvider {
	case ProviderAnthropic:
		if strings.TrimSpace(c.AnthropicAPIKey) == "" {
			errs = append(errs, fmt.Errorf("%w: ANTHROPIC_API_KEY", ErrMissingAPIKey))
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			errs = append(errs, fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingAPIKey))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProvider, c.LLMProvider))
	}

	for _, name := range []string{c.DefaultProfile, c.BatchProfile} {
		if _, ok := summarizer.ProfileByName(name); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProfile, name))
		}
	}

	return errors.Join(errs...)
}

func (c Config) Profiles() (summarizer.Profile, summarizer.Profile) {
	def, ok := summarizer.ProfileByName(c.DefaultProfile)
	if !ok {
		def = summarizer.Medium
	}

	batch, ok := summarizer.ProfileByName(c.BatchProfile)
	if !ok {
		batch = summarizer.Short
	}

	return def, batch
}

// ReaderURL is the remote reader endpoint. Unset selects the default reader,
// "off" disables the remote reader tier.
func (c Config) ReaderURL() string {
	switch v := strings.TrimSpace(c.ReaderProxyURL); strings.ToLower(v) {
	case "":
		return fetcher.DefaultReaderURL
	case "off", "none":
		return ""
	default:
		return v
	}
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
