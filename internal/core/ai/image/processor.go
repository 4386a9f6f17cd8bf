package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"foodsnap-api/internal/pkg/common"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	_ "golang.org/x/image/webp" // 支援 WebP
)

const defaultMimeType = "image/jpeg"

// Image 解碼後的圖片
type Image struct {
	Data     []byte
	MimeType string
}

// Processor 圖片處理器
type Processor struct {
	maxSizeBytes int64
	maxDimension int
}

// NewProcessor 創建圖片處理器，maxDimension <= 0 表示不縮圖
func NewProcessor(maxSizeBytes int64, maxDimension int) *Processor {
	return &Processor{
		maxSizeBytes: maxSizeBytes,
		maxDimension: maxDimension,
	}
}

// Decode 解析 data URI 或純 base64 字串
func (p *Processor) Decode(input string) (*Image, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, common.ErrNoImage
	}

	mimeType := ""
	payload := input
	if strings.HasPrefix(input, "data:") {
		header, data, ok := strings.Cut(input, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, common.ErrInvalidImageFormat.Wrap(fmt.Errorf("invalid data URI header"))
		}
		mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = data
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, common.ErrInvalidImageFormat.Wrap(err)
	}
	if len(data) == 0 {
		return nil, common.ErrNoImage
	}
	if p.maxSizeBytes > 0 && int64(len(data)) > p.maxSizeBytes {
		return nil, common.ErrInvalidImageSize
	}

	if mimeType == "" {
		mimeType = sniff(data)
	}

	img := &Image{Data: data, MimeType: mimeType}
	return p.fit(img), nil
}

// fit 把過大的圖片縮到 maxDimension 內並轉為 JPEG；無法解碼時原樣送出
func (p *Processor) fit(img *Image) *Image {
	if p.maxDimension <= 0 {
		return img
	}
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		common.LogDebug("Image not decodable locally, sending as-is", zap.String("mime", img.MimeType))
		return img
	}
	bounds := decoded.Bounds()
	if bounds.Dx() <= p.maxDimension && bounds.Dy() <= p.maxDimension {
		return img
	}

	resized := imaging.Fit(decoded, p.maxDimension, p.maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		common.LogWarn("Failed to re-encode resized image", zap.Error(err))
		return img
	}

	common.LogDebug("Image resized",
		zap.Int("from_width", bounds.Dx()),
		zap.Int("from_height", bounds.Dy()),
		zap.Int("to_width", resized.Bounds().Dx()),
		zap.Int("to_height", resized.Bounds().Dy()),
	)
	return &Image{Data: buf.Bytes(), MimeType: defaultMimeType}
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	return data, nil
}

// sniff 依內容判斷 MIME，非圖片一律視為 JPEG
func sniff(data []byte) string {
	detected := mimetype.Detect(data)
	if strings.HasPrefix(detected.String(), "image/") {
		return detected.String()
	}
	return defaultMimeType
}

// ToJPEGOrPNG 將圖片轉成 PDF 可嵌入的格式
func ToJPEGOrPNG(data []byte, mimeType string) ([]byte, string, error) {
	switch mimeType {
	case "image/jpeg", "image/png":
		return data, mimeType, nil
	}
	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, decoded, imaging.PNG); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}
