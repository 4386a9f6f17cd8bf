// Package food 實作兩段式食物辨識：先判斷是否為食物，再取得完整分析。
package food

import (
	"context"

	"foodsnap-api/internal/core/ai/provider"
	"foodsnap-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Checker 食物門檻判斷
type Checker struct {
	generator provider.Generator
}

// NewChecker 創建門檻判斷器
func NewChecker(g provider.Generator) *Checker {
	return &Checker{generator: g}
}

// CheckIsFood 送出一次請求判斷圖片是否為食物或飲料
// 不檢查圖片大小或格式，reason 只在 isFood=false 時有意義
func (c *Checker) CheckIsFood(ctx context.Context, image []byte, mimeType string) (*common.FoodCheckResult, error) {
	resp, err := c.generator.Generate(ctx, &provider.Request{
		Stage:    provider.StageGate,
		Prompt:   gatePrompt,
		Image:    image,
		MimeType: mimeType,
		Schema:   FoodCheckSchema,
	})
	if err != nil {
		return nil, err
	}

	var result common.FoodCheckResult
	if err := parseStrict(provider.StageGate, resp.Content, FoodCheckSchema, &result); err != nil {
		common.LogWarn("Gate response rejected", zap.Error(err), zap.String("body", common.SanitizeBody([]byte(resp.Content))))
		return nil, err
	}

	if result.IsFood {
		result.Reason = ""
	} else if result.Reason != "" && result.Reason != common.NotFoodReason {
		common.LogWarn("Gate returned a non-standard rejection reason", zap.String("reason", result.Reason))
	}

	return &result, nil
}
