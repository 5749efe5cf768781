package core

// Estimate 是一名球员的预测结果。
// Raw 为未取整、未截断的线性输出 dot(w, x) + b；Points 为最终积分。
type Estimate struct {
	Name   string
	Stats  []float64
	Raw    float64
	Points int
}
