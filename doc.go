// Package fplkit 根据线性回归模型预测 Fantasy Premier League 球员积分。
//
// 设计要点：
// - Load-once: 模型在启动时显式加载，之后只读，可并发共享
// - Explicit lookup: 特征源（球员表 / Redis / Feast）作为依赖显式传入
// - Points = max(0, round(dot(w, x) + b))，取整默认 round-half-to-even
package fplkit

import (
	"github.com/rushteam/fplkit/feature"
	"github.com/rushteam/fplkit/model"
	"github.com/rushteam/fplkit/predict"
)

// 轻量 facade：便于用户直接 import "fplkit" 使用核心抽象。
type (
	LinearModel   = model.LinearModel
	FeatureLookup = feature.FeatureLookup
	Predictor     = predict.Predictor
)

// LoadModel 加载模型文件，见 model.LoadLinearModel。
func LoadModel(path string) (*LinearModel, error) {
	return model.LoadLinearModel(path)
}

// NewPredictor 组合模型与特征源，见 predict.New。
func NewPredictor(m *LinearModel, lookup FeatureLookup, opts ...predict.Option) *Predictor {
	return predict.New(m, lookup, opts...)
}

// PredictPlayerPoints 见 predict.PredictPlayerPoints。
func PredictPlayerPoints(weights []float64, intercept float64, stats []float64) (int, error) {
	return predict.PredictPlayerPoints(weights, intercept, stats)
}
