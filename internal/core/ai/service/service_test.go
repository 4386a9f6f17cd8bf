package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodsnap-api/internal/core/ai/cache"
	"foodsnap-api/internal/core/ai/provider"
	"foodsnap-api/internal/core/ai/queue"
	"foodsnap-api/internal/core/ai/schema"
	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*provider.Response)
	return resp, args.Error(1)
}

func (m *mockProvider) GetModel() string         { return "mock-model" }
func (m *mockProvider) GetTimeout() time.Duration { return time.Second }
func (m *mockProvider) Close() error              { return nil }

func gateRequest(image string) *provider.Request {
	s := schema.NewObject("", schema.Prop("isFood", schema.NewBoolean("")))
	s.Name = "food_check"
	return &provider.Request{Stage: provider.StageGate, Prompt: "p", Image: []byte(image), MimeType: "image/jpeg", Schema: s}
}

func newService(p provider.Provider) *Service {
	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	q := queue.NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	return NewService(p, store, q)
}

func TestGenerate_CachesSuccess(t *testing.T) {
	p := new(mockProvider)
	p.On("Generate", mock.Anything, mock.Anything).Return(&provider.Response{Content: `{"isFood":true}`}, nil).Once()
	svc := newService(p)
	defer svc.Close()

	ctx := context.Background()
	first, err := svc.Generate(ctx, gateRequest("img"))
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := svc.Generate(ctx, gateRequest("img"))
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Content, second.Content)

	p.AssertNumberOfCalls(t, "Generate", 1)
	assert.Equal(t, 1, svc.QueueStatus().ProcessedCount)
}

func TestGenerate_DifferentImageMisses(t *testing.T) {
	p := new(mockProvider)
	p.On("Generate", mock.Anything, mock.Anything).Return(&provider.Response{Content: `{}`}, nil)
	svc := newService(p)
	defer svc.Close()

	_, err := svc.Generate(context.Background(), gateRequest("a"))
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), gateRequest("b"))
	require.NoError(t, err)
	p.AssertNumberOfCalls(t, "Generate", 2)
}

func TestGenerate_FailureNotCached(t *testing.T) {
	transportErr := &common.TransportError{Stage: provider.StageGate, StatusCode: 503, Err: errors.New("unavailable")}
	p := new(mockProvider)
	p.On("Generate", mock.Anything, mock.Anything).Return(nil, transportErr).Once()
	p.On("Generate", mock.Anything, mock.Anything).Return(&provider.Response{Content: `{}`}, nil).Once()
	svc := newService(p)
	defer svc.Close()

	_, err := svc.Generate(context.Background(), gateRequest("img"))
	assert.ErrorIs(t, err, transportErr)

	resp, err := svc.Generate(context.Background(), gateRequest("img"))
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
	p.AssertNumberOfCalls(t, "Generate", 2)
}

func TestGenerate_WithoutCacheOrQueue(t *testing.T) {
	p := new(mockProvider)
	p.On("Generate", mock.Anything, mock.Anything).Return(&provider.Response{Content: `{}`}, nil)
	svc := NewService(p, nil, nil)

	_, err := svc.Generate(context.Background(), gateRequest("img"))
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), gateRequest("img"))
	require.NoError(t, err)
	p.AssertNumberOfCalls(t, "Generate", 2)
	assert.Nil(t, svc.CacheStats())
	assert.Nil(t, svc.QueueStatus())
	assert.Equal(t, "mock-model", svc.GetModel())
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.Config
		expectedModel string
		expectErr     bool
	}{
		{
			name:          "gemini",
			cfg:           config.Config{AI: config.AIConfig{Provider: config.ProviderGemini}, Gemini: config.GeminiConfig{APIKey: "k", Model: "gemini-2.5-flash"}},
			expectedModel: "gemini-2.5-flash",
		},
		{
			name:          "openrouter",
			cfg:           config.Config{AI: config.AIConfig{Provider: config.ProviderOpenRouter}, OpenRouter: config.OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.5-flash"}},
			expectedModel: "google/gemini-2.5-flash",
		},
		{
			name:      "unsupported",
			cfg:       config.Config{AI: config.AIConfig{Provider: "other"}},
			expectErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			p, err := NewProvider(&testCase.cfg)
			if testCase.expectErr {
				var cfgErr *common.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedModel, p.GetModel())
			assert.NoError(t, p.Close())
		})
	}
}

func TestGenerate_NonConformingReplyNotCached(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated_json", content: `{"isFood":tr`},
		{name: "missing_field", content: `{}`},
		{name: "wrong_type", content: `{"isFood":"yes"}`},
		{name: "trailing_data", content: `{"isFood":true} {"isFood":false}`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			p := new(mockProvider)
			p.On("Generate", mock.Anything, mock.Anything).Return(&provider.Response{Content: testCase.content}, nil).Once()
			p.On("Generate", mock.Anything, mock.Anything).Return(&provider.Response{Content: `{"isFood":true}`}, nil).Once()
			svc := newService(p)
			defer svc.Close()

			ctx := context.Background()
			first, err := svc.Generate(ctx, gateRequest("img"))
			require.NoError(t, err)
			assert.Equal(t, testCase.content, first.Content)

			second, err := svc.Generate(ctx, gateRequest("img"))
			require.NoError(t, err)
			assert.False(t, second.CacheHit)
			assert.Equal(t, `{"isFood":true}`, second.Content)

			third, err := svc.Generate(ctx, gateRequest("img"))
			require.NoError(t, err)
			assert.True(t, third.CacheHit)

			p.AssertNumberOfCalls(t, "Generate", 2)
		})
	}
}
