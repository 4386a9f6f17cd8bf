package service

import (
	"context"
	"strings"
	"time"

	"foodsnap-api/internal/core/ai/cache"
	"foodsnap-api/internal/core/ai/provider"
	"foodsnap-api/internal/core/ai/queue"
	"foodsnap-api/internal/core/ai/schema"
	"foodsnap-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Service AI 服務：在提供者前加上快取與併發限制
type Service struct {
	provider provider.Provider
	cache    cache.Store
	queue    *queue.Manager
}

// NewService 創建 AI 服務，cache 與 queue 可為 nil
func NewService(p provider.Provider, store cache.Store, q *queue.Manager) *Service {
	return &Service{
		provider: p,
		cache:    store,
		queue:    q,
	}
}

// Generate 統一對外方法；只快取成功的回覆
func (s *Service) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	requestID := common.RequestIDFrom(ctx)

	schemaName := ""
	if req.Schema != nil {
		schemaName = req.Schema.Name
	}
	key := cache.Key(schemaName, req.Prompt, req.MimeType, req.Image)

	if s.cache != nil {
		value, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			common.LogWarn("Cache lookup failed", zap.String("stage", req.Stage), zap.Error(err))
		} else if ok {
			common.LogInfo("AI 快取命中", zap.String("stage", req.Stage), zap.String("request_id", requestID))
			return &provider.Response{Content: value, CacheHit: true}, nil
		}
	}

	if s.queue != nil {
		if err := s.queue.Acquire(ctx); err != nil {
			return nil, err
		}
		defer s.queue.Release()
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	common.LogAICall(req.Stage, time.Since(start), err, requestID)
	if err != nil {
		return nil, err
	}

	common.LogDebug("AI usage",
		zap.String("stage", req.Stage),
		zap.String("model", s.provider.GetModel()),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	if s.cache != nil {
		if err := conforms(req.Schema, resp.Content); err != nil {
			common.LogDebug("Reply not cached", zap.String("stage", req.Stage), zap.Error(err))
		} else if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("Cache store failed", zap.String("stage", req.Stage), zap.Error(err))
		}
	}

	return resp, nil
}

// conforms 回覆需為符合 schema 的單一 JSON 值才可快取；無 schema 時只要求合法 JSON
func conforms(s *schema.Schema, content string) error {
	var raw interface{}
	if err := common.ParseJSON(strings.TrimSpace(content), &raw); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return schema.Validate(s, raw)
}

// GetModel 目前使用的模型
func (s *Service) GetModel() string {
	return s.provider.GetModel()
}

// CacheStats 快取統計，未啟用時為 nil
func (s *Service) CacheStats() map[string]interface{} {
	if s.cache == nil {
		return nil
	}
	return s.cache.Stats()
}

// QueueStatus 併發狀態，未啟用時為 nil
func (s *Service) QueueStatus() *queue.Status {
	if s.queue == nil {
		return nil
	}
	return s.queue.GetQueueStatus()
}

// Close 關閉提供者、快取與隊列
func (s *Service) Close() error {
	if s.queue != nil {
		s.queue.Close()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			common.LogWarn("Failed to close cache", zap.Error(err))
		}
	}
	return s.provider.Close()
}
