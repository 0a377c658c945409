// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port           string        // default "8080"
	Env            string        // "development" | "staging" | "production"
	RequestTimeout time.Duration // default 3m; covers a full generation

	// ── OpenAI ────────────────────────────────────────────────────────────────
	OpenAIAPIKey string
	OpenAIModel  string // default "gpt-3.5-turbo"

	// ── Anthropic ─────────────────────────────────────────────────────────────
	// Optional. Tried after OpenAI when both are set.
	AnthropicAPIKey string
	AnthropicModel  string // default "claude-3-5-haiku-latest"

	// ── DeepSeek ──────────────────────────────────────────────────────────────
	// Optional. Last in the fallback chain.
	DeepSeekAPIKey string
	DeepSeekModel  string // default "deepseek-chat"

	// ── Risk search ───────────────────────────────────────────────────────────
	// When disabled every generation uses the fixed fallback risk table.
	RiskSearchEnabled bool          // default true
	RiskSearchURL     string        // default "https://www.google.com/search"
	RiskSearchDelay   time.Duration // default 2s, pause before each query
	RiskSearchTimeout time.Duration // default 15s per request
}

// Load reads all environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present, so
// plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is ignored.
func LoadFrom(dotenv string) (*Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", dotenv, err)
	}

	c := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 3*time.Minute),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		DeepSeekAPIKey:    os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekModel:     getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		RiskSearchEnabled: getEnvAsBool("RISK_SEARCH_ENABLED", true),
		RiskSearchURL:     getEnv("RISK_SEARCH_URL", "https://www.google.com/search"),
		RiskSearchDelay:   getEnvAsDuration("RISK_SEARCH_DELAY", 2*time.Second),
		RiskSearchTimeout: getEnvAsDuration("RISK_SEARCH_TIMEOUT", 15*time.Second),
	}

	return c, c.validate()
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	var errs []error

	// At least one AI provider must be configured.
	if c.OpenAIAPIKey == "" && c.AnthropicAPIKey == "" && c.DeepSeekAPIKey == "" {
		errs = append(errs, errors.New("at least one of OPENAI_API_KEY, ANTHROPIC_API_KEY or DEEPSEEK_API_KEY must be set"))
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid PORT %q: must be a number", c.Port))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid REQUEST_TIMEOUT %s: must be positive", c.RequestTimeout))
	}

	if c.RiskSearchEnabled {
		if u, err := url.Parse(c.RiskSearchURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid RISK_SEARCH_URL %q: must be an absolute URL", c.RiskSearchURL))
		}
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A plain integer is read as seconds.
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	// Fall back to Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
