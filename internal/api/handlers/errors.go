// Package handlers 各 HTTP handler 共用的回應工具。
package handlers

import (
	"errors"
	"net/http"

	"foodsnap-api/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WriteError 以 ErrorResponse 格式回應錯誤；details 僅在 debug 模式輸出
func WriteError(c *gin.Context, err error) {
	status, code := common.HTTPStatus(err)
	response := common.ErrorResponse{
		Code:    code,
		Message: common.UserMessage(err),
	}
	if gin.IsDebugging() {
		response.Details = err.Error()
	}
	if isAnalysisFailure(err) {
		response.Tips = common.AnalysisTips
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("code", code),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= 500 {
		common.LogError("Request failed", fields...)
	} else {
		common.LogWarn("Request rejected", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, response)
}

// BadRequest 請求格式錯誤
func BadRequest(c *gin.Context, err error) {
	WriteError(c, common.ErrInvalidRequest.Wrap(err))
}

// isAnalysisFailure 遠端分析失敗時才附上重新上傳建議
func isAnalysisFailure(err error) bool {
	var (
		notFood   *common.NotFoodError
		malformed *common.MalformedResponseError
		transport *common.TransportError
	)
	return errors.As(err, &notFood) || errors.As(err, &malformed) || errors.As(err, &transport)
}

// BindJSON 解析請求體；失敗時已寫入錯誤回應並回傳 false
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(c, common.ErrInvalidImageSize.Wrap(err))
			return false
		}
		BadRequest(c, err)
		return false
	}
	return true
}
