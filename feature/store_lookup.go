package feature

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rushteam/fplkit/core"
)

// DefaultKeyPrefix 是球员特征在 Store 中的默认 key 前缀
const DefaultKeyPrefix = "player:stats:"

// VectorSerializer 是特征向量序列化接口，支持不同的序列化格式
type VectorSerializer interface {
	Serialize(stats []float64) ([]byte, error)
	Deserialize(data []byte) ([]float64, error)
}

// JSONSerializer 是 JSON 序列化实现，向量编码为 JSON 数组
type JSONSerializer struct{}

func (j *JSONSerializer) Serialize(stats []float64) ([]byte, error) {
	return json.Marshal(stats)
}

func (j *JSONSerializer) Deserialize(data []byte) ([]float64, error) {
	var stats []float64
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// StoreLookup 是基于 core.Store 的特征查找实现，采用适配器模式。
// key = KeyPrefix + 球员名字，value 为序列化后的向量。
type StoreLookup struct {
	store      core.Store
	keyPrefix  string
	serializer VectorSerializer
}

// NewStoreLookup 创建基于 Store 的特征查找，keyPrefix 为空时使用 DefaultKeyPrefix
func NewStoreLookup(store core.Store, keyPrefix string) *StoreLookup {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &StoreLookup{
		store:      store,
		keyPrefix:  keyPrefix,
		serializer: &JSONSerializer{},
	}
}

// WithSerializer 设置序列化器
func (p *StoreLookup) WithSerializer(serializer VectorSerializer) *StoreLookup {
	p.serializer = serializer
	return p
}

func (p *StoreLookup) Name() string {
	return fmt.Sprintf("store.%s", p.store.Name())
}

func (p *StoreLookup) key(name string) string { return p.keyPrefix + name }

func (p *StoreLookup) Lookup(ctx context.Context, name string) ([]float64, error) {
	data, err := p.store.Get(ctx, p.key(name))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, NotFound(name)
		}
		return nil, fmt.Errorf("feature: %s get %q: %w", p.Name(), name, err)
	}
	stats, err := p.serializer.Deserialize(data)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("feature: decode stats for %q", name), err)
	}
	return stats, nil
}

// BatchLookup 批量读取；任一条目反序列化失败即返回错误。
func (p *StoreLookup) BatchLookup(ctx context.Context, names []string) (map[string][]float64, error) {
	if len(names) == 0 {
		return make(map[string][]float64), nil
	}

	keys := make([]string, len(names))
	keyToName := make(map[string]string, len(names))
	for i, name := range names {
		keys[i] = p.key(name)
		keyToName[keys[i]] = name
	}

	dataMap, err := p.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("feature: %s batch get: %w", p.Name(), err)
	}

	result := make(map[string][]float64, len(dataMap))
	for key, data := range dataMap {
		name := keyToName[key]
		stats, err := p.serializer.Deserialize(data)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
				fmt.Sprintf("feature: decode stats for %q", name), err)
		}
		result[name] = stats
	}
	return result, nil
}

// Names 列出 Store 中全部球员
func (p *StoreLookup) Names(ctx context.Context) ([]string, error) {
	keys, err := p.store.Keys(ctx, p.keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("feature: %s list keys: %w", p.Name(), err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, p.keyPrefix))
	}
	return names, nil
}

// Put 写入一名球员的统计特征
func (p *StoreLookup) Put(ctx context.Context, name string, stats []float64) error {
	data, err := p.serializer.Serialize(stats)
	if err != nil {
		return fmt.Errorf("feature: encode stats for %q: %w", name, err)
	}
	return p.store.Set(ctx, p.key(name), data)
}

// Import 批量写入球员表（例如从 LoadTable 得到的表灌入 Redis）
func (p *StoreLookup) Import(ctx context.Context, players map[string][]float64) error {
	kvs := make(map[string][]byte, len(players))
	for name, stats := range players {
		data, err := p.serializer.Serialize(stats)
		if err != nil {
			return fmt.Errorf("feature: encode stats for %q: %w", name, err)
		}
		kvs[p.key(name)] = data
	}
	return p.store.BatchSet(ctx, kvs)
}

var (
	_ BatchLookup = (*StoreLookup)(nil)
	_ Lister      = (*StoreLookup)(nil)
)
