package food

import (
	"context"
	"testing"
	"time"

	"foodsnap-api/internal/core/ai/cache"
	"foodsnap-api/internal/core/ai/provider"
	"foodsnap-api/internal/core/ai/service"
	"foodsnap-api/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// cachedProvider 讓 mockGenerator 可作為 provider.Provider 使用
type cachedProvider struct {
	*mockGenerator
}

func (cachedProvider) GetModel() string         { return "mock-model" }
func (cachedProvider) GetTimeout() time.Duration { return time.Second }
func (cachedProvider) Close() error              { return nil }

func TestAnalyzeFood_RejectedRepliesAreRetried(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, stage(provider.StageGate)).Return(reply(`{"isFood":true,"reason":""}`), nil).Once()
	gen.On("Generate", mock.Anything, stage(provider.StageAnalysis)).Return(reply(`{"foodName":"Nasi"`), nil).Once()
	gen.On("Generate", mock.Anything, stage(provider.StageAnalysis)).Return(reply(`{"foodName":"Nasi"}`), nil).Once()
	gen.On("Generate", mock.Anything, stage(provider.StageAnalysis)).Return(reply(sampleAnalysisJSON(t)), nil).Once()

	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Hour})
	svc := service.NewService(cachedProvider{gen}, store, nil)
	defer svc.Close()
	analyzer := NewAnalyzer(svc, nil)
	ctx := context.Background()

	// 截斷與缺欄位的回覆都不可進入快取
	_, err := analyzer.AnalyzeFood(ctx, testImage, "image/jpeg")
	requireMalformed(t, err, provider.StageAnalysis)
	_, err = analyzer.AnalyzeFood(ctx, testImage, "image/jpeg")
	requireMalformed(t, err, provider.StageAnalysis)

	analysis, err := analyzer.AnalyzeFood(ctx, testImage, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, sampleAnalysis(), *analysis)

	// 成功的回覆由快取提供
	analysis, err = analyzer.AnalyzeFood(ctx, testImage, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, sampleAnalysis(), *analysis)

	gen.AssertExpectations(t)
	gen.AssertNumberOfCalls(t, "Generate", 4)
}

func TestAnalyzeFood_CacheSeparatesMimeTypes(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, stage(provider.StageGate)).Return(reply(`{"isFood":false,"reason":""}`), nil).Twice()

	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Hour})
	svc := service.NewService(cachedProvider{gen}, store, nil)
	defer svc.Close()
	checker := NewChecker(svc)

	for _, mimeType := range []string{"image/jpeg", "image/png", "image/jpeg"} {
		_, err := checker.CheckIsFood(context.Background(), testImage, mimeType)
		require.NoError(t, err)
	}

	gen.AssertNumberOfCalls(t, "Generate", 2)
}
