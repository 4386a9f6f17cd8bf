package food

import (
	"context"

	"foodsnap-api/internal/core/ai/image"
	"foodsnap-api/internal/core/ai/provider"
	"foodsnap-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Analyzer 兩段式分析：門檻判斷通過後才送出完整分析請求
type Analyzer struct {
	generator provider.Generator
	checker   *Checker
	images    *image.Processor
}

// NewAnalyzer 創建分析器，images 為 nil 時不限制大小也不縮圖
func NewAnalyzer(g provider.Generator, images *image.Processor) *Analyzer {
	if images == nil {
		images = image.NewProcessor(0, 0)
	}
	return &Analyzer{
		generator: g,
		checker:   NewChecker(g),
		images:    images,
	}
}

// Checker 共用的門檻判斷器
func (a *Analyzer) Checker() *Checker {
	return a.checker
}

// DecodeImage 解析上傳的 base64 或 data URI
func (a *Analyzer) DecodeImage(base64Image string) (*image.Image, error) {
	return a.images.Decode(base64Image)
}

// AnalyzeFood 依序呼叫門檻判斷與完整分析，兩次請求使用同一份圖片
func (a *Analyzer) AnalyzeFood(ctx context.Context, img []byte, mimeType string) (*common.FoodAnalysis, error) {
	check, err := a.checker.CheckIsFood(ctx, img, mimeType)
	if err != nil {
		return nil, err
	}
	if !check.IsFood {
		common.LogInfo("Image rejected by food gate", zap.String("reason", check.Reason),
			zap.String("request_id", common.RequestIDFrom(ctx)))
		return nil, common.NewNotFoodError(check.Reason)
	}

	resp, err := a.generator.Generate(ctx, &provider.Request{
		Stage:    provider.StageAnalysis,
		Prompt:   analysisPrompt,
		Image:    img,
		MimeType: mimeType,
		Schema:   FoodAnalysisSchema,
	})
	if err != nil {
		return nil, err
	}

	var analysis common.FoodAnalysis
	if err := parseStrict(provider.StageAnalysis, resp.Content, FoodAnalysisSchema, &analysis); err != nil {
		common.LogWarn("Analysis response rejected", zap.Error(err), zap.String("body", common.SanitizeBody([]byte(resp.Content))))
		return nil, err
	}
	return &analysis, nil
}

// AnalyzeFoodImage 接受 base64 或 data URI；未指定 MIME 時依內容判斷，預設 image/jpeg
func (a *Analyzer) AnalyzeFoodImage(ctx context.Context, base64Image string) (*common.FoodAnalysis, error) {
	img, err := a.images.Decode(base64Image)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFood(ctx, img.Data, img.MimeType)
}
