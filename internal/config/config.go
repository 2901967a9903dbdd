package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOllama     = "ollama"
)

// SupportedProviders lists the accepted LLM_PROVIDER values.
var SupportedProviders = []string{ProviderOpenRouter, ProviderAnthropic, ProviderGemini, ProviderOllama}

var defaultModels = map[string]string{
	ProviderOpenRouter: "nvidia/llama-3.1-nemotron-70b-instruct",
	ProviderAnthropic:  "claude-3-5-haiku-latest",
	ProviderGemini:     "gemini-1.5-flash",
	ProviderOllama:     "llama3.1",
}

type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFile     string // "-" discards logs

	LLMProvider string
	ModelName   string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterReferer string
	OpenRouterTitle   string
	AnthropicAPIKey   string
	GeminiAPIKey      string
	OllamaURL         string

	HistoryLimit   int
	RequestTimeout time.Duration
	FamilyFilter   bool
}

// Load reads a .env file if one exists, then the environment. A missing API
// key is not an error here; the game reports it in character on first use.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables only.
func FromEnv() (*Config, error) {
	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenRouter))

	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:           getEnv("LOG_FILE", "santa.log"),
		LLMProvider:       provider,
		ModelName:         getEnv("MODEL_NAME", defaultModels[provider]),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", os.Getenv("VITE_OPENROUTER_API_KEY")),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterReferer: getEnv("OPENROUTER_REFERER", "https://santa-chatbot.local"),
		OpenRouterTitle:   getEnv("OPENROUTER_TITLE", "Santa Chatbot"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		HistoryLimit:      getEnvInt("HISTORY_LIMIT", 10),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		FamilyFilter:      getEnvBool("FAMILY_FILTER", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be recovered from at runtime.
func (c *Config) Validate() error {
	if _, ok := defaultModels[c.LLMProvider]; !ok {
		return fmt.Errorf("unsupported LLM_PROVIDER %q (supported: %s)", c.LLMProvider, strings.Join(SupportedProviders, ", "))
	}
	if c.ModelName == "" {
		return fmt.Errorf("MODEL_NAME cannot be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	return nil
}

// APIKey returns the credential for the configured provider. Ollama runs
// locally and needs none.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// IsProduction returns true when running with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
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

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
