package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/fplkit/core"
)

const (
	// ArtifactVersion 是当前支持的模型文件版本
	ArtifactVersion = 1
	// KindLinearRegression 是线性回归模型的 kind 标识
	KindLinearRegression = "linear_regression"
)

// Format 是模型文件编码格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath 根据扩展名推断格式：.yaml/.yml 为 YAML，其它为 JSON。
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LinearModel 是线性回归模型：
//
//	y = Intercept + sum(Weights[i] * x[i])
//
// 由 LoadLinearModel 一次性创建，之后只读，可被多个 goroutine 并发读取。
// Features 可选，为每个权重命名，供按特征名取值的特征源（如 Feast）组装有序向量。
type LinearModel struct {
	weights   []float64
	intercept float64
	features  []string
}

// artifact 是模型文件的线上格式。
type artifact struct {
	Version   int       `json:"version" yaml:"version"`
	Kind      string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Intercept float64   `json:"intercept" yaml:"intercept"`
	Weights   []float64 `json:"weights" yaml:"weights"`
	Features  []string  `json:"features,omitempty" yaml:"features,omitempty"`
}

// NewLinearModel 用给定参数创建模型，参数会被复制。
func NewLinearModel(weights []float64, intercept float64, features ...string) (*LinearModel, error) {
	if len(weights) == 0 {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: weights must not be empty")
	}
	if len(features) > 0 && len(features) != len(weights) {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: %d feature names for %d weights", len(features), len(weights)))
	}
	m := &LinearModel{
		weights:   append([]float64(nil), weights...),
		intercept: intercept,
	}
	if len(features) > 0 {
		m.features = append([]string(nil), features...)
	}
	return m, nil
}

// LoadLinearModel 从文件加载模型。文件缺失、不可读、无法解码或版本不兼容时
// 返回 core.ErrorCodeDeserialization 错误。
func LoadLinearModel(path string) (*LinearModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDeserialization, "model: open artifact", err)
	}
	defer f.Close()
	return DecodeLinearModel(f, FormatFromPath(path))
}

// DecodeLinearModel 从 r 解码模型，未知字段视为格式不兼容。
func DecodeLinearModel(r io.Reader, format Format) (*LinearModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDeserialization, "model: read artifact", err)
	}

	var (
		raw  artifact
		tail error
	)
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&raw); err == nil {
			var extra yaml.Node
			tail = dec.Decode(&extra)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err = dec.Decode(&raw); err == nil {
			var extra json.RawMessage
			tail = dec.Decode(&extra)
		}
	}
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDeserialization, "model: decode artifact", err)
	}
	// 文件只能包含一个文档
	if tail != io.EOF {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDeserialization, "model: trailing data after artifact", tail)
	}

	if raw.Version != ArtifactVersion {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeDeserialization,
			fmt.Sprintf("model: unsupported artifact version %d", raw.Version))
	}
	if raw.Kind != "" && raw.Kind != KindLinearRegression {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeDeserialization,
			fmt.Sprintf("model: unsupported kind %q", raw.Kind))
	}

	m, err := NewLinearModel(raw.Weights, raw.Intercept, raw.Features...)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleModel, core.ErrorCodeDeserialization, "model: invalid artifact", err)
	}
	return m, nil
}

// Save 将模型写入文件，格式由扩展名决定。
func (m *LinearModel) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("model: create %s: %w", path, err)
	}
	if err := m.Encode(f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode 将模型按指定格式写入 w。
func (m *LinearModel) Encode(w io.Writer, format Format) error {
	raw := artifact{
		Version:   ArtifactVersion,
		Kind:      KindLinearRegression,
		Intercept: m.intercept,
		Weights:   m.weights,
		Features:  m.features,
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(&raw); err != nil {
			return fmt.Errorf("model: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&raw); err != nil {
			return fmt.Errorf("model: encode json: %w", err)
		}
		return nil
	}
}

// Name 返回模型类型标识
func (m *LinearModel) Name() string { return KindLinearRegression }

// Dim 返回特征维度
func (m *LinearModel) Dim() int { return len(m.weights) }

// Params 返回截距和权重副本
func (m *LinearModel) Params() (float64, []float64) {
	return m.intercept, m.Weights()
}

// Intercept 返回截距（偏置项）
func (m *LinearModel) Intercept() float64 { return m.intercept }

// Weights 返回权重副本
func (m *LinearModel) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// Features 返回特征名副本，未命名时为 nil
func (m *LinearModel) Features() []string {
	if m.features == nil {
		return nil
	}
	return append([]string(nil), m.features...)
}

func (m *LinearModel) String() string {
	return fmt.Sprintf("LinearRegression(n_features=%d)", len(m.weights))
}

var _ Regressor = (*LinearModel)(nil)
