package feature

import (
	"context"
	"fmt"

	"github.com/rushteam/fplkit/core"
)

// FeatureLookup 根据球员名字返回其有序统计特征向量。
// 向量顺序必须与模型权重顺序一致；未知名字返回 LookupError（见 ErrPlayerNotFound）。
type FeatureLookup interface {
	Name() string
	Lookup(ctx context.Context, name string) ([]float64, error)
}

// BatchLookup 是可选扩展：一次取多名球员，减少网络往返。
// 结果中缺失的名字视为不存在。
type BatchLookup interface {
	FeatureLookup
	BatchLookup(ctx context.Context, names []string) (map[string][]float64, error)
}

// Lister 是可选扩展：列出特征源中的全部球员（用于排行）。
type Lister interface {
	Names(ctx context.Context) ([]string, error)
}

// ErrPlayerNotFound 是查找失败的哨兵错误，可用 errors.Is 判断。
var ErrPlayerNotFound = core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "feature: player not found")

// NotFound 构造带球员名字的 LookupError
func NotFound(name string) error {
	return core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, fmt.Sprintf("feature: player %q not found", name))
}

func copyVector(v []float64) []float64 {
	return append([]float64(nil), v...)
}

func errNotListable(l FeatureLookup) error {
	return core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotSupported,
		fmt.Sprintf("feature: %s cannot list players", l.Name()))
}
