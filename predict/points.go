// Package predict 把线性模型输出转换为球员积分：
//
//	points = clamp(round(dot(w, x) + b), 0, MaxPoints)
//
// 取整默认采用 round-half-to-even（银行家舍入），MaxPoints 为 0 时不设上限。
package predict

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/rushteam/fplkit/core"
)

// Rounding 是 .5 边界值的取整规则
type Rounding string

const (
	// RoundHalfEven 四舍六入五成双：2.5 -> 2, 3.5 -> 4
	RoundHalfEven Rounding = "half_even"
	// RoundHalfAway 远离零舍入：2.5 -> 3, -2.5 -> -3
	RoundHalfAway Rounding = "half_away"
)

// ParseRounding 解析取整规则，空字符串返回默认值 RoundHalfEven
func ParseRounding(s string) (Rounding, error) {
	switch Rounding(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoundHalfEven:
		return RoundHalfEven, nil
	case RoundHalfAway:
		return RoundHalfAway, nil
	default:
		return "", core.NewDomainError(core.ModulePredict, core.ErrorCodeInvalidInput,
			fmt.Sprintf("predict: unknown rounding %q (want %s or %s)", s, RoundHalfEven, RoundHalfAway))
	}
}

func (r Rounding) apply(v float64) float64 {
	if r == RoundHalfAway {
		return math.Round(v)
	}
	return math.RoundToEven(v)
}

// Options 控制积分的取整与截断
type Options struct {
	Rounding  Rounding
	MaxPoints int // 大于 0 时作为上限
}

// Raw 计算 dot(weights, stats) + intercept。长度不一致时返回 DIMENSION_MISMATCH。
func Raw(weights []float64, intercept float64, stats []float64) (float64, error) {
	if len(weights) != len(stats) {
		return 0, core.NewDomainError(core.ModulePredict, core.ErrorCodeDimensionMismatch,
			fmt.Sprintf("predict: %d stats for %d weights", len(stats), len(weights)))
	}
	return floats.Dot(weights, stats) + intercept, nil
}

// ToPoints 把线性输出转换为积分：取整后下限截断为 0，按需截断上限。
// NaN 视为 0。
func ToPoints(raw float64, opts Options) int {
	if math.IsNaN(raw) {
		return 0
	}
	v := opts.Rounding.apply(raw)
	if v < 0 {
		return 0
	}
	if opts.MaxPoints > 0 && v > float64(opts.MaxPoints) {
		return opts.MaxPoints
	}
	// float64(math.MaxInt) 为 2^63，已超出 int 范围
	if v >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(v)
}

// PredictPlayerPoints 计算 max(0, round(dot(weights, stats) + intercept))，
// 取整规则为 round-half-to-even，不设上限。
func PredictPlayerPoints(weights []float64, intercept float64, stats []float64) (int, error) {
	return PredictPlayerPointsWith(weights, intercept, stats, Options{})
}

// PredictPlayerPointsWith 与 PredictPlayerPoints 相同，但可指定取整与上限。
func PredictPlayerPointsWith(weights []float64, intercept float64, stats []float64, opts Options) (int, error) {
	raw, err := Raw(weights, intercept, stats)
	if err != nil {
		return 0, err
	}
	return ToPoints(raw, opts), nil
}
