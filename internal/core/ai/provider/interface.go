package provider

import (
	"context"
	"time"

	"foodsnap-api/internal/core/ai/schema"
)

// 請求階段
const (
	StageGate     = "gate"
	StageAnalysis = "analysis"
)

// Request 單次多模態請求：一段指令文字、一張圖片與要求的輸出結構
type Request struct {
	Stage    string
	Prompt   string
	Image    []byte
	MimeType string
	Schema   *schema.Schema
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 模型回傳的原始文字（應為 JSON）
type Response struct {
	Content  string `json:"content"`
	Usage    Usage  `json:"usage"`
	CacheHit bool   `json:"cache_hit"`
}

// Generator 對使用端暴露的最小介面
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Provider 定義 AI 提供者介面
type Provider interface {
	Generator

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	MaxTokens int
}
