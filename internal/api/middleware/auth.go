package middleware

import (
	"net/http"
	"strings"

	"foodsnap-api/internal/core/auth"
	"foodsnap-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// userKey gin context 中登入使用者的鍵
	userKey = "user"
	// AnonymousUser 關閉登入時所有請求共用的使用者
	AnonymousUser = "anonymous"
)

// TokenValidator 驗證 Bearer token
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Auth JWT 驗證中間件
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, common.ErrCodeUnauthorized, common.ErrUnauthorized.Message)
			return
		}

		claims, err := validator.Validate(strings.TrimSpace(token))
		if err != nil {
			common.LogWarn("Invalid token",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			abort(c, http.StatusUnauthorized, common.ErrCodeUnauthorized, common.ErrUnauthorized.Message)
			return
		}

		c.Set(userKey, claims.Subject)
		c.Next()
	}
}

// Anonymous 關閉登入時使用
func Anonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userKey, AnonymousUser)
		c.Next()
	}
}

// UserID 取得目前使用者
func UserID(c *gin.Context) string {
	if user := c.GetString(userKey); user != "" {
		return user
	}
	return AnonymousUser
}
