// Package conv 提供数值类型转换工具，用于把 YAML/JSON 解码出的 any 转为 float64。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32、uint64；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
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
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToFloat64Slice 将 []any 逐项转为 []float64，遇到无法转换的元素时返回其下标。
func ToFloat64Slice(values []any) ([]float64, int, bool) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := ToFloat64(v)
		if !ok {
			return nil, i, false
		}
		out[i] = f
	}
	return out, -1, true
}
