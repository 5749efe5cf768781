package feature

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedLookup 是特征查找的 LRU 缓存装饰器。
// 只缓存命中结果；未知球员每次都会回源。
type CachedLookup struct {
	next  FeatureLookup
	cache *lru.Cache[string, []float64]
}

// NewCachedLookup 创建容量为 size 的缓存装饰器
func NewCachedLookup(next FeatureLookup, size int) (*CachedLookup, error) {
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, fmt.Errorf("feature: create lru cache: %w", err)
	}
	return &CachedLookup{next: next, cache: cache}, nil
}

func (c *CachedLookup) Name() string { return "cached." + c.next.Name() }

func (c *CachedLookup) Lookup(ctx context.Context, name string) ([]float64, error) {
	if stats, ok := c.cache.Get(name); ok {
		return copyVector(stats), nil
	}
	stats, err := c.next.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(name, copyVector(stats))
	return stats, nil
}

// Names 透传到底层特征源；底层不支持列出时返回 NOT_SUPPORTED。
func (c *CachedLookup) Names(ctx context.Context) ([]string, error) {
	lister, ok := c.next.(Lister)
	if !ok {
		return nil, errNotListable(c.next)
	}
	return lister.Names(ctx)
}

// Len 返回当前缓存条目数
func (c *CachedLookup) Len() int { return c.cache.Len() }

// Purge 清空缓存
func (c *CachedLookup) Purge() { c.cache.Purge() }

var _ Lister = (*CachedLookup)(nil)
