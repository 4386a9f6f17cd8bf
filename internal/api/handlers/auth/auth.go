package auth

import (
	"net/http"

	"foodsnap-api/internal/api/handlers"
	"foodsnap-api/internal/api/middleware"
	authService "foodsnap-api/internal/core/auth"
	foodService "foodsnap-api/internal/core/food"
	"foodsnap-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRequest 登入請求；欄位非必填，空值由 Authenticator 回報
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler 登入與登出
type Handler struct {
	authenticator *authService.Authenticator
	sessions      *foodService.SessionStore
}

// NewHandler 創建 Handler
func NewHandler(authenticator *authService.Authenticator, sessions *foodService.SessionStore) *Handler {
	return &Handler{authenticator: authenticator, sessions: sessions}
}

// Login 驗證帳號密碼並回傳 token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	token, err := h.authenticator.Login(req.Email, req.Password)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	common.LogInfo("User logged in", zap.String("ip", c.ClientIP()))
	c.JSON(http.StatusOK, token)
}

// Logout 重置使用者的分析流程
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Reset(middleware.UserID(c))
	c.Status(http.StatusNoContent)
}
