// Package cache 儲存成功的模型回覆文字，避免同一張圖片重複呼叫遠端模型。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"foodsnap-api/internal/infrastructure/config"
)

// Store 快取後端
type Store interface {
	// Get 取得值；未命中回傳 ok=false 且 err=nil
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// Key 依 schema 名稱、prompt、MIME 類型與圖片內容產生快取鍵
func Key(schemaName, prompt, mimeType string, image []byte) string {
	h := sha256.New()
	for _, part := range []string{schemaName, prompt, mimeType} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(image)
	return fmt.Sprintf("multimodal:%s:%s", schemaName, hex.EncodeToString(h.Sum(nil)))
}

// New 依設定建立快取後端；停用時回傳 nil
func New(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case config.CacheBackendRedis:
		svc, err := NewService(cfg)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return NewManager(cfg), nil
	}
}

func ratio(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
