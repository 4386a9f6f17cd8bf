// Package queue 限制同時送往遠端模型的請求數量。
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 管理器已關閉
var ErrClosed = errors.New("queue manager is closed")

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	Active         int `json:"active"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器：最多 Workers 個請求同時進行，最多 MaxSize 個請求等待
type Manager struct {
	config    config.QueueConfig
	slots     chan struct{}
	done      chan struct{}
	once      sync.Once
	waiting   int64
	processed int64
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Manager{
		config: cfg,
		slots:  make(chan struct{}, cfg.Workers),
		done:   make(chan struct{}),
	}
}

// Acquire 取得執行名額；等待人數已滿時回傳 ErrQueueFull
func (m *Manager) Acquire(ctx context.Context) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}

	select {
	case m.slots <- struct{}{}:
		return nil
	default:
	}

	if n := atomic.AddInt64(&m.waiting, 1); n > int64(m.config.MaxSize) {
		atomic.AddInt64(&m.waiting, -1)
		common.LogWarn("Request queue is full",
			zap.Int64("queue_length", n-1),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return common.ErrQueueFull
	}
	defer atomic.AddInt64(&m.waiting, -1)

	select {
	case m.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrClosed
	}
}

// Release 歸還名額
func (m *Manager) Release() {
	select {
	case <-m.slots:
		atomic.AddInt64(&m.processed, 1)
	default:
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    int(atomic.LoadInt64(&m.waiting)),
		Active:         len(m.slots),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 關閉隊列管理器，喚醒所有等待者
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}
