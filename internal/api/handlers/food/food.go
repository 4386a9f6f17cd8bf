package food

import (
	"fmt"
	"net/http"

	"foodsnap-api/internal/api/handlers"
	"foodsnap-api/internal/core/export"
	foodService "foodsnap-api/internal/core/food"
	"foodsnap-api/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageRequest 上傳圖片請求
type ImageRequest struct {
	Image string `json:"image" binding:"required"` // base64 或 data URI
}

// ExportRequest 匯出 PDF 請求，圖片可省略
type ExportRequest struct {
	Image    string               `json:"image,omitempty"`
	Analysis *common.FoodAnalysis `json:"analysis" binding:"required"`
}

// Handler 食物辨識相關 handler
type Handler struct {
	analyzer *foodService.Analyzer
	renderer *export.Renderer
}

// NewHandler 創建 Handler
func NewHandler(analyzer *foodService.Analyzer, renderer *export.Renderer) *Handler {
	return &Handler{analyzer: analyzer, renderer: renderer}
}

// CheckFood 只執行門檻判斷
func (h *Handler) CheckFood(c *gin.Context) {
	var req ImageRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	img, err := h.analyzer.DecodeImage(req.Image)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	result, err := h.analyzer.Checker().CheckIsFood(c.Request.Context(), img.Data, img.MimeType)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeFood 門檻判斷後執行完整分析
func (h *Handler) AnalyzeFood(c *gin.Context) {
	var req ImageRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	analysis, err := h.analyzer.AnalyzeFoodImage(c.Request.Context(), req.Image)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	common.LogInfo("Food analysis completed",
		zap.String("food_name", analysis.FoodName),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusOK, analysis)
}

// ExportFood 將請求中的分析結果輸出為 PDF
func (h *Handler) ExportFood(c *gin.Context) {
	var req ExportRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	var (
		data     []byte
		mimeType string
	)
	if req.Image != "" {
		img, err := h.analyzer.DecodeImage(req.Image)
		if err != nil {
			handlers.WriteError(c, err)
			return
		}
		data, mimeType = img.Data, img.MimeType
	}

	writePDF(c, h.renderer, req.Analysis, data, mimeType)
}

// writePDF 輸出 PDF 附件
func writePDF(c *gin.Context, renderer *export.Renderer, analysis *common.FoodAnalysis, img []byte, mimeType string) {
	pdf, err := renderer.Render(analysis, img, mimeType)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(analysis.FoodName)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
