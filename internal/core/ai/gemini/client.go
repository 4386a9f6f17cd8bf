// Package gemini 透過 generateContent REST 端點呼叫 Gemini 多模態模型。
package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client Gemini 客戶端
type Client struct {
	config provider.Config
	client *resty.Client
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)

	return &Client{
		config: cfg,
		client: client,
	}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate 送出一張圖片與指令，要求以 JSON 依 schema 回覆
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	body := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MimeType: req.MimeType, Data: base64.StdEncoding.EncodeToString(req.Image)}},
				{Text: req.Prompt},
			},
		}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	}
	if req.Schema != nil {
		body.GenerationConfig.ResponseSchema = req.Schema.Gemini()
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", c.config.Model))
	if err != nil {
		return nil, &common.TransportError{Stage: req.Stage, Err: err}
	}

	common.LogDebug("Gemini response received",
		zap.String("stage", req.Stage),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("body", common.SanitizeBody(resp.Body())),
	)

	if resp.StatusCode() != http.StatusOK {
		return nil, &common.TransportError{Stage: req.Stage, StatusCode: resp.StatusCode(), Err: apiError(resp.Body())}
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &common.MalformedResponseError{Stage: req.Stage, Err: fmt.Errorf("failed to parse Gemini envelope: %w", err)}
	}

	if len(result.Candidates) == 0 {
		reason := "no candidates in Gemini response"
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + result.PromptFeedback.BlockReason
		}
		return nil, &common.MalformedResponseError{Stage: req.Stage, Err: errors.New(reason)}
	}

	var text strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, &common.MalformedResponseError{
			Stage: req.Stage,
			Err:   fmt.Errorf("empty text (finish reason %q)", result.Candidates[0].FinishReason),
		}
	}

	return &provider.Response{
		Content: text.String(),
		Usage: provider.Usage{
			PromptTokens:     result.UsageMetadata.PromptTokenCount,
			CompletionTokens: result.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      result.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

func apiError(body []byte) error {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return fmt.Errorf("%s: %s", e.Error.Status, e.Error.Message)
	}
	return errors.New(common.SanitizeBody(body))
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
