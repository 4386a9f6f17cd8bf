package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "not_food_keeps_reason",
			err:      NewNotFoodError(NotFoodReason),
			expected: NotFoodReason,
		},
		{
			name:     "not_food_empty_reason_falls_back",
			err:      NewNotFoodError(""),
			expected: NoFoodFallbackReason,
		},
		{
			name:     "wrapped_not_food",
			err:      fmt.Errorf("analyze: %w", NewNotFoodError("bukan makanan")),
			expected: "bukan makanan",
		},
		{
			name:     "malformed",
			err:      &MalformedResponseError{Stage: "analysis", Err: errors.New("bad json")},
			expected: msgMalformedResponse,
		},
		{
			name:     "transport",
			err:      &TransportError{Stage: "gate", StatusCode: 500, Err: errors.New("boom")},
			expected: msgTransport,
		},
		{
			name:     "transport_timeout",
			err:      &TransportError{Stage: "gate", Err: context.DeadlineExceeded},
			expected: msgTimeout,
		},
		{
			name:     "custom",
			err:      ErrInvalidCredentials,
			expected: "Email atau password salah.",
		},
		{
			name:     "cache_full",
			err:      ErrCacheFull,
			expected: "Penyimpanan sementara penuh. Silakan coba lagi.",
		},
		{
			name:     "unknown",
			err:      errors.New("whatever"),
			expected: msgUnknown,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, UserMessage(testCase.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedKind string
	}{
		{"not_food", NewNotFoodError(""), http.StatusUnprocessableEntity, ErrCodeNotFood},
		{"malformed", &MalformedResponseError{Stage: "gate", Err: errors.New("x")}, http.StatusBadGateway, ErrCodeMalformedResponse},
		{"transport", &TransportError{Stage: "gate", Err: errors.New("x")}, http.StatusBadGateway, ErrCodeAIServiceError},
		{"timeout", &TransportError{Stage: "gate", Err: fmt.Errorf("wrap: %w", context.DeadlineExceeded)}, http.StatusGatewayTimeout, ErrCodeGatewayTimeout},
		{"custom", ErrQueueFull, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"unknown", errors.New("x"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			status, code := HTTPStatus(testCase.err)
			assert.Equal(t, testCase.expectedCode, status)
			assert.Equal(t, testCase.expectedKind, code)
		})
	}
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Field: "gemini.api_key"}
	assert.Equal(t, "configuration error: gemini.api_key is required", err.Error())

	var target *ConfigurationError
	assert.True(t, errors.As(fmt.Errorf("invalid config: %w", err), &target))
}
