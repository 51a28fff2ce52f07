package config

import (
	"testing"
	"time"

	"github.com/futig/code-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAzureEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_CHATGPT_DEPLOYMENT", "gpt-4o")
	t.Setenv("AZURE_OPENAI_API_KEY", "secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults with complete azure settings", func(t *testing.T) {
		setAzureEnv(t)

		cfg, err := Load("test-missing-file")
		require.NoError(t, err)

		assert.Empty(t, cfg.Warnings)
		assert.NoError(t, cfg.MissingError())
		assert.Equal(t, ":8080", cfg.ServerAddr)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "2024-06-01", cfg.AzureOpenAICfg.APIVersion)
		assert.Equal(t, ".cs", cfg.LanguageCfg.Extension)
		assert.Equal(t, "csharp", cfg.LanguageCfg.FenceTag)
		assert.Equal(t, SessionStoreMemory, cfg.SessionCfg.Store)
		assert.Equal(t, time.Duration(0), cfg.SessionCfg.TTL)
		assert.Equal(t, uint(1), cfg.LLMConnectorCfg.Retry.Attempts)
		assert.Equal(t, 120*time.Second, cfg.LLMConnectorCfg.RequestTimeout)
		assert.Equal(t, "test-missing-file", cfg.Environment)
	})

	t.Run("missing azure settings are warnings, not errors", func(t *testing.T) {
		t.Setenv("AZURE_OPENAI_ENDPOINT", "")
		t.Setenv("AZURE_OPENAI_CHATGPT_DEPLOYMENT", "")
		t.Setenv("AZURE_OPENAI_API_KEY", "")

		cfg, err := Load("test-missing-file")
		require.NoError(t, err)

		require.Len(t, cfg.Warnings, 3)
		assert.Contains(t, cfg.Warnings[0], "AZURE_OPENAI_ENDPOINT not set")
		assert.Contains(t, cfg.Warnings[1], "AZURE_OPENAI_CHATGPT_DEPLOYMENT not set")
		assert.Contains(t, cfg.Warnings[2], "AZURE_OPENAI_API_KEY not set")
		assert.ErrorIs(t, cfg.MissingError(), entity.ErrConfigMissing)
	})

	t.Run("single missing value yields single warning", func(t *testing.T) {
		setAzureEnv(t)
		t.Setenv("AZURE_OPENAI_API_KEY", "")

		cfg, err := Load("test-missing-file")
		require.NoError(t, err)

		assert.Equal(t, []string{"AZURE_OPENAI_API_KEY"}, cfg.AzureOpenAICfg.Missing())
		assert.Len(t, cfg.Warnings, 1)
	})

	t.Run("postgres store requires database url", func(t *testing.T) {
		setAzureEnv(t)
		t.Setenv("SESSION_STORE", "postgres")
		t.Setenv("DATABASE_URL", "")

		_, err := Load("test-missing-file")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("unknown store is rejected", func(t *testing.T) {
		setAzureEnv(t)
		t.Setenv("SESSION_STORE", "redis")

		_, err := Load("test-missing-file")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_STORE")
	})

	t.Run("extension must start with dot", func(t *testing.T) {
		setAzureEnv(t)
		t.Setenv("SOURCE_LANGUAGE_EXTENSION", "cs")

		_, err := Load("test-missing-file")
		require.Error(t, err)
	})
}

func TestGetEnvFile(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"prod", ".env.prod"},
		{"production", ".env.prod"},
		{"local", ".env.local"},
		{"dev", ".env.local"},
		{"staging", ".env.staging"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, getEnvFile(tt.env))
		})
	}
}
