package food

import (
	"fmt"
	"strings"

	"foodsnap-api/internal/core/ai/schema"
	"foodsnap-api/internal/pkg/common"
)

// parseStrict 去除前後空白後整段解析，先驗證結構再綁定到 out
// 不做任何修補（不擷取大括號、不補欄位）
func parseStrict(stage, text string, s *schema.Schema, out interface{}) error {
	text = strings.TrimSpace(text)

	var raw interface{}
	if err := common.ParseJSON(text, &raw); err != nil {
		return &common.MalformedResponseError{Stage: stage, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(s, raw); err != nil {
		return &common.MalformedResponseError{Stage: stage, Err: err}
	}
	if err := common.ParseJSON(text, out); err != nil {
		return &common.MalformedResponseError{Stage: stage, Err: fmt.Errorf("failed to bind response: %w", err)}
	}
	return nil
}
