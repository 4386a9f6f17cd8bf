package health

import (
	"net/http"
	"runtime"
	"time"

	"foodsnap-api/internal/core/ai/queue"
	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Provider  string                 `json:"provider"`
	Model     string                 `json:"model"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
	Sessions  int                    `json:"sessions"`
}

// AIStatus 健康檢查需要的 AI 服務資訊
type AIStatus interface {
	GetModel() string
	QueueStatus() *queue.Status
	CacheStats() map[string]interface{}
}

// SessionCounter 目前保存的 Session 數量
type SessionCounter interface {
	Len() int
}

// Handler 健康檢查 handler
type Handler struct {
	cfg      *config.Config
	ai       AIStatus
	sessions SessionCounter
	now      func() time.Time
}

// NewHandler 創建 Handler
func NewHandler(cfg *config.Config, ai AIStatus, sessions SessionCounter) *Handler {
	return &Handler{cfg: cfg, ai: ai, sessions: sessions, now: time.Now}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// 構建響應
	response := HealthResponse{
		Status:    "ok",
		Timestamp: h.now(),
		Version:   h.cfg.App.Version,
		Provider:  h.cfg.AI.Provider,
		Model:     h.ai.GetModel(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Queue:    h.ai.QueueStatus(),
		Cache:    h.ai.CacheStats(),
		Sessions: h.sessions.Len(),
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 隊列已滿時回報未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	status := h.ai.QueueStatus()
	if status != nil && status.QueueLength >= status.MaxQueueSize {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "busy",
			"queue":  status,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
