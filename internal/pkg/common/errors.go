package common

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// 固定的使用者訊息（與前端顯示一致，需逐字相同）
const (
	// NotFoodReason 門檻判斷為非食物時模型必須回傳的原因
	NotFoodReason = "Foto ini bukan makanan. Silakan unggah foto makanan atau minuman."
	// NoFoodFallbackReason 模型拒絕但未給原因時使用
	NoFoodFallbackReason = "Tidak ditemukan makanan pada foto."
	// NoImageMessage 尚未選擇圖片就要求分析
	NoImageMessage = "Silakan unggah gambar terlebih dahulu."

	msgMalformedResponse = "Gagal menganalisis foto. Respons AI tidak valid, silakan coba lagi."
	msgTransport         = "Layanan analisis sedang tidak dapat dihubungi. Silakan coba lagi."
	msgTimeout           = "Analisis memakan waktu terlalu lama. Silakan coba lagi."
	msgUnknown           = "Terjadi kesalahan yang tidak diketahui."
)

// AnalysisTips 分析失敗時提供給使用者的建議
var AnalysisTips = []string{
	"Pastikan gambar jelas dan tidak buram.",
	"Coba gunakan foto dengan pencahayaan yang baik.",
	"Pastikan objek utama dalam foto adalah makanan.",
	"Hindari gambar dengan terlalu banyak objek yang mengganggu.",
}

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string   `json:"code"`              // 錯誤代碼
	Message string   `json:"message"`           // 錯誤信息
	Details string   `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
	Tips    []string `json:"tips,omitempty"`    // 重新上傳建議
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error { return e.Err }

// Wrap 以相同代碼與訊息包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ConfigurationError 啟動時缺少必要設定（致命）
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration error: %s is required", e.Field)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// NotFoodError 門檻判斷圖片不是食物
type NotFoodError struct {
	Reason string
}

func (e *NotFoodError) Error() string { return e.Reason }

// NewNotFoodError 創建非食物錯誤，空原因時使用預設訊息
func NewNotFoodError(reason string) *NotFoodError {
	if reason == "" {
		reason = NoFoodFallbackReason
	}
	return &NotFoodError{Reason: reason}
}

// MalformedResponseError 模型輸出無法解析或不符合 schema
type MalformedResponseError struct {
	Stage string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Stage, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// TransportError 網路或遠端服務錯誤（逾時、非成功狀態碼）
type TransportError struct {
	Stage      string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (status %d): %v", e.Stage, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout 是否為逾時造成
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// UserMessage 將所有錯誤種類收斂為單一可顯示訊息
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		notFood   *NotFoodError
		malformed *MalformedResponseError
		transport *TransportError
		custom    *CustomError
	)
	switch {
	case errors.As(err, &notFood):
		return notFood.Reason
	case errors.As(err, &malformed):
		return msgMalformedResponse
	case errors.As(err, &transport):
		if transport.Timeout() {
			return msgTimeout
		}
		return msgTransport
	case errors.As(err, &custom):
		return custom.Message
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}
	return msgUnknown
}

// HTTPStatus 依錯誤種類決定 HTTP 狀態碼與錯誤代碼
func HTTPStatus(err error) (int, string) {
	var (
		notFood   *NotFoodError
		malformed *MalformedResponseError
		transport *TransportError
		custom    *CustomError
	)
	switch {
	case errors.As(err, &notFood):
		return http.StatusUnprocessableEntity, ErrCodeNotFood
	case errors.As(err, &malformed):
		return http.StatusBadGateway, ErrCodeMalformedResponse
	case errors.As(err, &transport):
		if transport.Timeout() {
			return http.StatusGatewayTimeout, ErrCodeGatewayTimeout
		}
		return http.StatusBadGateway, ErrCodeAIServiceError
	case errors.As(err, &custom):
		return custom.Status, custom.Code
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeGatewayTimeout
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"      // 401
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooLarge        = "PAYLOAD_TOO_LARGE" // 413
	ErrCodeNotFood         = "NOT_FOOD"          // 422
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeMalformedResponse  = "MALFORMED_RESPONSE"  // 502
	ErrCodeAIServiceError     = "AI_SERVICE_ERROR"    // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "Permintaan tidak valid.", http.StatusBadRequest, nil)
	ErrUnauthorized     = NewError(ErrCodeUnauthorized, "Silakan masuk untuk melanjutkan.", http.StatusUnauthorized, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "Terlalu banyak permintaan. Silakan coba lagi nanti.", http.StatusTooManyRequests, nil)
	ErrAnalysisInFlight = NewError(ErrCodeConflict, "Analisis sedang berjalan.", http.StatusConflict, nil)

	// 業務錯誤
	ErrEmptyCredentials   = NewError("EMPTY_CREDENTIALS", "Email dan password tidak boleh kosong.", http.StatusBadRequest, nil)
	ErrInvalidCredentials = NewError("INVALID_CREDENTIALS", "Email atau password salah.", http.StatusUnauthorized, nil)
	ErrInvalidImageFormat = NewError("INVALID_IMAGE_FORMAT", "Format gambar tidak valid.", http.StatusBadRequest, nil)
	ErrInvalidImageSize   = NewError("INVALID_IMAGE_SIZE", "Ukuran gambar melebihi batas.", http.StatusRequestEntityTooLarge, nil)
	ErrNoImage            = NewError(ErrCodeInvalidRequest, NoImageMessage, http.StatusBadRequest, nil)
	ErrNoResult           = NewError(ErrCodeNotFound, "Belum ada hasil analisis untuk diekspor.", http.StatusNotFound, nil)
	ErrCacheFull          = NewError("CACHE_FULL", "Penyimpanan sementara penuh. Silakan coba lagi.", http.StatusServiceUnavailable, nil)
	ErrQueueFull          = NewError(ErrCodeServiceUnavailable, "Layanan sedang sibuk. Silakan coba lagi.", http.StatusServiceUnavailable, nil)
)
