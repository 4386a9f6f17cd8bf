package openrouter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"foodsnap-api/internal/core/ai/provider"
	"foodsnap-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	baseURL = "https://openrouter.ai/api/v1"
)

// Client OpenRouter API 客戶端
type Client struct {
	config provider.Config
	client *resty.Client
}

// TextContent 文本內容
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ImageContent 圖片內容
type ImageContent struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

// ImageURL 以 data URI 傳送的圖片
type ImageURL struct {
	URL string `json:"url"`
}

// Message 消息結構，content 為多段內容
type Message struct {
	Role    string `json:"role"`
	Content []any  `json:"content"`
}

// ResponseFormat 要求模型依 JSON Schema 回覆
type ResponseFormat struct {
	Type       string     `json:"type"`
	JSONSchema JSONSchema `json:"json_schema"`
}

// JSONSchema strict 模式的 schema 包裝
type JSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// Request 表示 API 請求
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Response OpenRouter 響應結構
type Response struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// Error 表示 API 錯誤
type Error struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://foodsnap.app").
		SetHeader("X-Title", "FoodSnap")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate 送出多模態請求
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", req.MimeType, base64.StdEncoding.EncodeToString(req.Image))
	body := Request{
		Model: c.config.Model,
		Messages: []Message{{
			Role: "user",
			Content: []any{
				TextContent{Type: "text", Text: req.Prompt},
				ImageContent{Type: "image_url", ImageURL: ImageURL{URL: dataURI}},
			},
		}},
		MaxTokens: c.config.MaxTokens,
	}
	if req.Schema != nil {
		name := req.Schema.Name
		if name == "" {
			name = "response"
		}
		body.ResponseFormat = &ResponseFormat{
			Type:       "json_schema",
			JSONSchema: JSONSchema{Name: name, Strict: true, Schema: req.Schema.JSONSchema()},
		}
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, &common.TransportError{Stage: req.Stage, Err: fmt.Errorf("failed to send request to OpenRouter: %w", err)}
	}

	common.LogDebug("OpenRouter response received",
		zap.String("stage", req.Stage),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("body", common.SanitizeBody(resp.Body())),
	)

	if resp.StatusCode() != http.StatusOK {
		return nil, &common.TransportError{Stage: req.Stage, StatusCode: resp.StatusCode(), Err: apiError(resp.Body())}
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &common.MalformedResponseError{Stage: req.Stage, Err: fmt.Errorf("failed to parse OpenRouter response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return nil, &common.MalformedResponseError{Stage: req.Stage, Err: errors.New("no choices in OpenRouter response")}
	}
	text := result.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, &common.MalformedResponseError{
			Stage: req.Stage,
			Err:   fmt.Errorf("empty content (finish reason %q)", result.Choices[0].FinishReason),
		}
	}

	return &provider.Response{Content: text, Usage: result.Usage}, nil
}

func apiError(body []byte) error {
	var e Error
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return fmt.Errorf("OpenRouter API error: %s", e.Error.Message)
	}
	return fmt.Errorf("OpenRouter API returned error: %s", common.SanitizeBody(body))
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// GetTimeout 獲取超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.config.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	return nil
}
