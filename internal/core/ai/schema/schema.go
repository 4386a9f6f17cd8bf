// Package schema 描述遠端模型必須遵守的輸出結構，並提供純函式驗證。
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind 基本型別
type Kind int

const (
	String Kind = iota + 1
	Boolean
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Property 物件中的具名欄位，保留宣告順序
type Property struct {
	Name   string
	Schema *Schema
}

// Schema 型別描述：Object 使用 Properties/Required，Array 使用 Items
type Schema struct {
	Name        string
	Kind        Kind
	Description string
	Properties  []Property
	Items       *Schema
	Required    []string
}

// NewString 字串欄位
func NewString(description string) *Schema {
	return &Schema{Kind: String, Description: description}
}

// NewBoolean 布林欄位
func NewBoolean(description string) *Schema {
	return &Schema{Kind: Boolean, Description: description}
}

// NewStringArray 字串陣列
func NewStringArray(description string) *Schema {
	return &Schema{Kind: Array, Description: description, Items: NewString("")}
}

// NewObject 物件，所有欄位預設為必填
func NewObject(description string, props ...Property) *Schema {
	s := &Schema{Kind: Object, Description: description, Properties: props}
	for _, p := range props {
		s.Required = append(s.Required, p.Name)
	}
	return s
}

// Prop 建立 Property
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

// Check 檢查 schema 本身是否一致（必填欄位必須已宣告、陣列需有 items）
func (s *Schema) Check() error {
	return s.check("$")
}

func (s *Schema) check(path string) error {
	switch s.Kind {
	case String, Boolean:
		return nil
	case Array:
		if s.Items == nil {
			return fmt.Errorf("%s: array without items", path)
		}
		return s.Items.check(path + "[]")
	case Object:
		seen := make(map[string]bool, len(s.Properties))
		for _, p := range s.Properties {
			if p.Schema == nil {
				return fmt.Errorf("%s.%s: nil schema", path, p.Name)
			}
			if seen[p.Name] {
				return fmt.Errorf("%s.%s: duplicate property", path, p.Name)
			}
			seen[p.Name] = true
			if err := p.Schema.check(path + "." + p.Name); err != nil {
				return err
			}
		}
		for _, name := range s.Required {
			if !seen[name] {
				return fmt.Errorf("%s: required property %q is not declared", path, name)
			}
		}
		return nil
	}
	return fmt.Errorf("%s: unknown kind %d", path, s.Kind)
}

// ValidationError 指出第一個不符合的路徑
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate 驗證已解碼的 JSON 值（map[string]any / []any / string / bool）
// null 一律視為不符合；未宣告的額外欄位忽略
func Validate(s *Schema, value any) error {
	return validate(s, value, "$")
}

func validate(s *Schema, value any, path string) error {
	if value == nil {
		return &ValidationError{Path: path, Reason: "value is null"}
	}
	switch s.Kind {
	case String:
		if _, ok := value.(string); !ok {
			return typeMismatch(path, s.Kind, value)
		}
	case Boolean:
		if _, ok := value.(bool); !ok {
			return typeMismatch(path, s.Kind, value)
		}
	case Array:
		items, ok := value.([]any)
		if !ok {
			return typeMismatch(path, s.Kind, value)
		}
		for i, item := range items {
			if err := validate(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case Object:
		obj, ok := value.(map[string]any)
		if !ok {
			return typeMismatch(path, s.Kind, value)
		}
		for _, name := range s.Required {
			if _, exists := obj[name]; !exists {
				return &ValidationError{Path: path + "." + name, Reason: "required field is missing"}
			}
		}
		for _, p := range s.Properties {
			v, exists := obj[p.Name]
			if !exists {
				continue
			}
			if err := validate(p.Schema, v, path+"."+p.Name); err != nil {
				return err
			}
		}
	default:
		return &ValidationError{Path: path, Reason: "unknown schema kind"}
	}
	return nil
}

func typeMismatch(path string, want Kind, got any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf("expected %s, got %s", want, jsonKind(got))}
}

func jsonKind(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case json.Number, float64, int, int64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// LeafPaths 列出所有必填欄位路徑（以 "." 分隔），用於測試與文件
func (s *Schema) LeafPaths() []string {
	var out []string
	s.collect("", &out)
	sort.Strings(out)
	return out
}

func (s *Schema) collect(prefix string, out *[]string) {
	if s.Kind != Object {
		return
	}
	for _, p := range s.Properties {
		path := p.Name
		if prefix != "" {
			path = prefix + "." + p.Name
		}
		*out = append(*out, path)
		p.Schema.collect(path, out)
	}
}

// Gemini 將 schema 轉為 Gemini responseSchema（OpenAPI 子集，大寫型別）
func (s *Schema) Gemini() map[string]any {
	out := map[string]any{"type": strings.ToUpper(s.Kind.String())}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Kind {
	case Array:
		out["items"] = s.Items.Gemini()
	case Object:
		props := make(map[string]any, len(s.Properties))
		order := make([]string, 0, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.Gemini()
			order = append(order, p.Name)
		}
		out["properties"] = props
		out["propertyOrdering"] = order
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
	}
	return out
}

// JSONSchema 將 schema 轉為標準 JSON Schema（strict 模式需 additionalProperties=false）
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": s.Kind.String()}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Kind {
	case Array:
		out["items"] = s.Items.JSONSchema()
	case Object:
		props := make(map[string]any, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.JSONSchema()
		}
		out["properties"] = props
		out["required"] = s.Required
		out["additionalProperties"] = false
	}
	return out
}
