// Package conv 读取 YAML/JSON 解析出的松散配置（map[string]any）。
//
// YAML 中的 2 会解析为 int，2.0 解析为 float64，JSON 中数字统一为 float64；
// Params 的取值方法对这些差异做归一，取不到或类型不符时返回默认值。
package conv

import "fmt"

// Params 是单个 Node 或过滤器的配置。
type Params map[string]any

// ToFloat64 把数值类型转为 float64；bool 视为 1/0。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func lookup[T any](p Params, key string, def T) T {
	if v, ok := p[key].(T); ok {
		return v
	}
	return def
}

func (p Params) String(key, def string) string {
	return lookup(p, key, def)
}

func (p Params) Bool(key string, def bool) bool {
	return lookup(p, key, def)
}

// Int 读取整数；浮点数向零截断。
func (p Params) Int(key string, def int) int {
	switch val := p[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case float32:
		return int(val)
	}
	return def
}

func (p Params) Float(key string, def float64) float64 {
	if _, isBool := p[key].(bool); isBool {
		return def
	}
	if f, ok := ToFloat64(p[key]); ok {
		return f
	}
	return def
}

// Strings 读取字符串列表，数字元素格式化为整数文本（YAML 里未加引号的 ID）。
func (p Params) Strings(key string) []string {
	switch raw := p[key].(type) {
	case []string:
		return raw
	case []any:
		out := make([]string, 0, len(raw))
		for _, e := range raw {
			switch v := e.(type) {
			case string:
				out = append(out, v)
			case bool:
			default:
				if f, ok := ToFloat64(v); ok {
					out = append(out, fmt.Sprintf("%.0f", f))
				}
			}
		}
		return out
	}
	return nil
}

// Sub 读取嵌套配置，不存在时返回 nil（nil Params 的取值方法都返回默认值）。
func (p Params) Sub(key string) Params {
	if m, ok := p[key].(map[string]any); ok {
		return m
	}
	return nil
}

// List 读取配置列表，非 map 的元素被跳过；key 不存在或不是列表时 ok 为 false。
func (p Params) List(key string) ([]Params, bool) {
	raw, ok := p[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]Params, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

// Floats 返回所有数值类型的条目，用于整体校验一组权重。
func (p Params) Floats() map[string]float64 {
	out := make(map[string]float64, len(p))
	for k, v := range p {
		if _, isBool := v.(bool); isBool {
			continue
		}
		if f, ok := ToFloat64(v); ok {
			out[k] = f
		}
	}
	return out
}
