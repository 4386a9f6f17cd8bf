package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// ParseJSON 解析單一 JSON 值，數字保留為 json.Number，尾端不可有多餘資料
func ParseJSON(data string, v interface{}) error {
	return decodeSingle(strings.NewReader(data), v)
}

// ParseJSONBytes 同 ParseJSON
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeSingle(bytes.NewReader(data), v)
}

func decodeSingle(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SanitizeBody 清理遠端回應內容，移除圖片資料後再寫入日誌
func SanitizeBody(body []byte) string {
	s := string(body)
	if strings.Contains(s, "data:image/") || strings.Contains(s, "inlineData") || strings.Contains(s, "inline_data") {
		return "[IMAGE_DATA_REMOVED]"
	}
	const limit = 2048
	if len(s) > limit {
		return s[:limit] + "...[TRUNCATED]"
	}
	return s
}
