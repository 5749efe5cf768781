package model

// Regressor 是回归模型的最小抽象：输入有序特征向量，输出一个未经处理的实数。
// 积分预测（取整、截断）在 predict 包中完成，模型本身只负责线性部分。
type Regressor interface {
	Name() string
	// Dim 返回期望的特征维度
	Dim() int
	// Params 返回 (intercept, weights)，weights 为副本
	Params() (float64, []float64)
}
