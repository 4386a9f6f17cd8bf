package config

import (
	"errors"
	"testing"
	"time"

	"foodsnap-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "API_KEY", "OPENROUTER_API_KEY", "AI_PROVIDER"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearKeys(t)
	t.Setenv("GEMINI_API_KEY", "test-gemini-key-123")
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model())
	assert.Equal(t, "test-gemini-key-123", cfg.APIKey())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, int64(10*1024*1024), cfg.Image.MaxSizeBytes)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoadConfig_LegacyAPIKeyName(t *testing.T) {
	clearKeys(t)
	t.Setenv("API_KEY", "legacy-key-abcdef")
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key-abcdef", cfg.Gemini.APIKey)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "gemini_key_missing",
			env:      map[string]string{"AUTH_ENABLED": "false"},
			expected: "gemini.api_key",
		},
		{
			name:     "openrouter_key_missing",
			env:      map[string]string{"AUTH_ENABLED": "false", "AI_PROVIDER": "openrouter", "GEMINI_API_KEY": "unused-key-1234"},
			expected: "openrouter.api_key",
		},
		{
			name:     "jwt_secret_missing",
			env:      map[string]string{"GEMINI_API_KEY": "key-12345678", "AUTH_EMAIL": "a@b.c", "AUTH_PASSWORD": "pw"},
			expected: "auth.jwt_secret",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			clearKeys(t)
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			assert.Nil(t, cfg)
			var cfgErr *common.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
			assert.Equal(t, testCase.expected, cfgErr.Field)
		})
	}
}

func TestLoadConfig_UnknownProvider(t *testing.T) {
	clearKeys(t)
	t.Setenv("AI_PROVIDER", "local")
	t.Setenv("AUTH_ENABLED", "false")

	_, err := LoadConfig()
	var cfgErr *common.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "ai.provider", cfgErr.Field)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
