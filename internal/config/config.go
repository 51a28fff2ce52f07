package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/code-companion/internal/entity"
	pkgRetry "github.com/futig/code-companion/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Azure OpenAI connection. Absent values are reported, not fatal.
	AzureOpenAICfg AzureOpenAIConfig `envPrefix:"AZURE_OPENAI_"`

	// Completion client tuning
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Source language of uploaded files
	LanguageCfg LanguageConfig `envPrefix:"SOURCE_LANGUAGE_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Session storage
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Database configuration, used only by the postgres session store
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string

	// Warnings collects non-fatal configuration problems
	Warnings []string
}

// AzureOpenAIConfig holds the hosted completion endpoint settings
type AzureOpenAIConfig struct {
	Endpoint   string `env:"ENDPOINT"`
	Deployment string `env:"CHATGPT_DEPLOYMENT"`
	APIKey     string `env:"API_KEY"`
	APIVersion string `env:"API_VERSION" envDefault:"2024-06-01"`
}

// Missing returns the names of required settings that are not set
func (c AzureOpenAIConfig) Missing() []string {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if c.Deployment == "" {
		missing = append(missing, "AZURE_OPENAI_CHATGPT_DEPLOYMENT")
	}
	if c.APIKey == "" {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	return missing
}

// IsComplete reports whether every required setting is present
func (c AzureOpenAIConfig) IsComplete() bool {
	return len(c.Missing()) == 0
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Temperature float64              `env:"TEMPERATURE" envDefault:"0"`
	MaxTokens   int64                `env:"MAX_TOKENS" envDefault:"0"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"110s"`
}

// LanguageConfig describes the accepted source language
type LanguageConfig struct {
	Name          string `env:"NAME" envDefault:"C#"`
	FenceTag      string `env:"TAG" envDefault:"csharp"`
	Extension     string `env:"EXTENSION" envDefault:".cs"`
	TestFramework string `env:"TEST_FRAMEWORK" envDefault:"xUnit"`
}

func (c LanguageConfig) ToEntity() entity.SourceLanguage {
	return entity.SourceLanguage{
		Name:          c.Name,
		FenceTag:      c.FenceTag,
		Extension:     c.Extension,
		TestFramework: c.TestFramework,
	}
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"1048576"`   // 1 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"2097152"` // 2 MiB
}

// SessionConfig selects and tunes the session store
type SessionConfig struct {
	Store           string        `env:"STORE" envDefault:"memory"`
	TTL             time.Duration `env:"TTL" envDefault:"0"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

// LoadConfig reads the -env flag, loads the matching env file and parses the environment
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load parses configuration for the named environment
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Warnings = collectWarnings(cfg)

	return cfg, nil
}

// collectWarnings reports absent connection settings without failing
func collectWarnings(cfg *Config) []string {
	var warnings []string
	for _, name := range cfg.AzureOpenAICfg.Missing() {
		warnings = append(warnings, fmt.Sprintf("%s not set. Please set this environment variable and restart the app.", name))
	}
	return warnings
}

// MissingError returns ErrConfigMissing wrapped with the names of absent settings, or nil
func (c *Config) MissingError() error {
	missing := c.AzureOpenAICfg.Missing()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", entity.ErrConfigMissing, strings.Join(missing, ", "))
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.SessionCfg.Store {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when SESSION_STORE=postgres")
		}
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStorePostgres, cfg.SessionCfg.Store))
	}

	if !strings.HasPrefix(cfg.LanguageCfg.Extension, ".") {
		errors = append(errors, fmt.Sprintf("SOURCE_LANGUAGE_EXTENSION must start with a dot, got %q", cfg.LanguageCfg.Extension))
	}

	if cfg.FileUploadCfg.MaxFileSize <= 0 || cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxUploadSize {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be between 1 and FILE_UPLOAD_MAX_UPLOAD_SIZE(%d), got %d", cfg.FileUploadCfg.MaxUploadSize, cfg.FileUploadCfg.MaxFileSize))
	}

	if cfg.LLMConnectorCfg.Retry.Attempts < 1 {
		errors = append(errors, "LLM_RETRY_ATTEMPTS must be at least 1")
	}

	if cfg.TelegramCfg.BotToken != "" {
		if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
			errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
		}
		if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
			errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
