package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/fplkit/core"
)

// DefaultFeastEntity 是 Feast 中球员实体的 join key
const DefaultFeastEntity = "player"

// OnlineRowFetcher 抽象了 Feast 在线特征读取，便于替换为测试桩。
// 返回的行与 names 一一对应，行的 key 为特征引用。
type OnlineRowFetcher interface {
	FetchRows(ctx context.Context, project, entity string, names, featureRefs []string) ([]feastsdk.Row, error)
	Close() error
}

// grpcFetcher 基于官方 Feast Go SDK 的 gRPC 客户端实现 OnlineRowFetcher
type grpcFetcher struct {
	client *feastsdk.GrpcClient
}

// NewGrpcFetcher 连接 Feast Feature Server，port 为 0 时使用 6565。
func NewGrpcFetcher(host string, port int) (OnlineRowFetcher, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleFeature, core.ErrorCodeUnavailable,
			fmt.Sprintf("feature: connect feast %s:%d", host, port), err)
	}
	return &grpcFetcher{client: client}, nil
}

func (g *grpcFetcher) FetchRows(ctx context.Context, project, entity string, names, featureRefs []string) ([]feastsdk.Row, error) {
	entities := make([]feastsdk.Row, len(names))
	for i, name := range names {
		entities[i] = feastsdk.Row{entity: feastsdk.StrVal(name)}
	}
	resp, err := g.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: featureRefs,
		Entities: entities,
		Project:  project,
	})
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "feature: feast get online features", err)
	}
	return resp.Rows(), nil
}

// Close 关闭 gRPC 连接
func (g *grpcFetcher) Close() error { return g.client.Close() }

// FeastLookup 从 Feast 在线特征服务按特征引用读取球员统计，
// 按 FeatureRefs 的顺序组装向量（与模型权重顺序一致）。
// 任一特征缺失或为 null 时视为该球员不存在。
type FeastLookup struct {
	fetcher     OnlineRowFetcher
	project     string
	entity      string
	featureRefs []string
}

// NewFeastLookup 创建 Feast 特征查找；featureRefs 通常取自 model.Features()，
// 可带特征视图前缀，例如 "player_stats:minutes"。
func NewFeastLookup(fetcher OnlineRowFetcher, project, entity string, featureRefs []string) (*FeastLookup, error) {
	if len(featureRefs) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: feast lookup needs feature refs")
	}
	if project == "" {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput, "feature: feast project is required")
	}
	if entity == "" {
		entity = DefaultFeastEntity
	}
	return &FeastLookup{
		fetcher:     fetcher,
		project:     project,
		entity:      entity,
		featureRefs: append([]string(nil), featureRefs...),
	}, nil
}

func (f *FeastLookup) Name() string { return "feast." + f.project }

// Close 关闭底层 fetcher
func (f *FeastLookup) Close() error { return f.fetcher.Close() }

func (f *FeastLookup) Lookup(ctx context.Context, name string) ([]float64, error) {
	rows, err := f.fetcher.FetchRows(ctx, f.project, f.entity, []string{name}, f.featureRefs)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("feature: feast returned %d rows for 1 entity", len(rows))
	}
	stats, ok := f.vector(rows[0])
	if !ok {
		return nil, NotFound(name)
	}
	return stats, nil
}

func (f *FeastLookup) BatchLookup(ctx context.Context, names []string) (map[string][]float64, error) {
	out := make(map[string][]float64, len(names))
	if len(names) == 0 {
		return out, nil
	}
	rows, err := f.fetcher.FetchRows(ctx, f.project, f.entity, names, f.featureRefs)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(names) {
		return nil, fmt.Errorf("feature: feast returned %d rows for %d entities", len(rows), len(names))
	}
	for i, row := range rows {
		if stats, ok := f.vector(row); ok {
			out[names[i]] = stats
		}
	}
	return out, nil
}

func (f *FeastLookup) vector(row feastsdk.Row) ([]float64, bool) {
	stats := make([]float64, len(f.featureRefs))
	for i, ref := range f.featureRefs {
		v, ok := numericValue(row[ref])
		if !ok {
			return nil, false
		}
		stats[i] = v
	}
	return stats, true
}

// numericValue 把 Feast 的标量值转为 float64；null 和非数值类型返回 false。
func numericValue(v *types.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.GetVal().(type) {
	case *types.Value_DoubleVal:
		return val.DoubleVal, true
	case *types.Value_FloatVal:
		return float64(val.FloatVal), true
	case *types.Value_Int64Val:
		return float64(val.Int64Val), true
	case *types.Value_Int32Val:
		return float64(val.Int32Val), true
	case *types.Value_BoolVal:
		if val.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

var _ BatchLookup = (*FeastLookup)(nil)
