package food

import (
	"net/http"

	"foodsnap-api/internal/api/handlers"
	"foodsnap-api/internal/api/middleware"
	"foodsnap-api/internal/core/export"
	foodService "foodsnap-api/internal/core/food"
	"foodsnap-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SessionHandler 每位使用者的分析流程
type SessionHandler struct {
	analyzer *foodService.Analyzer
	sessions *foodService.SessionStore
	renderer *export.Renderer
}

// NewSessionHandler 創建 SessionHandler
func NewSessionHandler(analyzer *foodService.Analyzer, sessions *foodService.SessionStore, renderer *export.Renderer) *SessionHandler {
	return &SessionHandler{analyzer: analyzer, sessions: sessions, renderer: renderer}
}

func (h *SessionHandler) session(c *gin.Context) *foodService.Session {
	return h.sessions.Get(middleware.UserID(c))
}

// GetSession 目前狀態
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

// SelectImage 選擇新圖片並清除先前結果
func (h *SessionHandler) SelectImage(c *gin.Context) {
	var req ImageRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	img, err := h.analyzer.DecodeImage(req.Image)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	s := h.session(c)
	s.SelectImage(img)
	c.JSON(http.StatusOK, s.Snapshot())
}

// Analyze 分析目前選擇的圖片
func (h *SessionHandler) Analyze(c *gin.Context) {
	s := h.session(c)
	if _, err := s.Analyze(c.Request.Context(), h.analyzer); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// ResetSession 回到 Idle
func (h *SessionHandler) ResetSession(c *gin.Context) {
	h.sessions.Reset(middleware.UserID(c))
	c.Status(http.StatusNoContent)
}

// ExportSession 匯出目前成功的分析結果
func (h *SessionHandler) ExportSession(c *gin.Context) {
	s := h.session(c)
	snap := s.Snapshot()
	if snap.Result == nil {
		handlers.WriteError(c, common.ErrNoResult)
		return
	}

	var (
		data     []byte
		mimeType string
	)
	if img := s.Image(); img != nil {
		data, mimeType = img.Data, img.MimeType
	}
	writePDF(c, h.renderer, snap.Result, data, mimeType)
}
