package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "foodsnap:ai:"

// Service Redis 緩存服務，條目過期交由 Redis TTL 處理
type Service struct {
	client *redis.Client
	config config.CacheConfig
	hits   int64
	misses int64
}

// NewService 創建緩存服務
func NewService(cfg config.CacheConfig) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis cache connected", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.TTL))

	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&s.misses, 1)
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cache: %w", err)
	}
	atomic.AddInt64(&s.hits, 1)
	return value, true, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 獲取緩存統計信息
func (s *Service) Stats() map[string]interface{} {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)
	stats := map[string]interface{}{
		"backend":   config.CacheBackendRedis,
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": ratio(hits, misses),
	}
	if size, err := s.client.DBSize(context.Background()).Result(); err == nil {
		stats["size"] = size
	}
	return stats
}

// Close 關閉連線
func (s *Service) Close() error {
	return s.client.Close()
}
