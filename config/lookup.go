package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/fplkit/feature"
	"github.com/rushteam/fplkit/model"
	"github.com/rushteam/fplkit/store"
)

// BuildLookup 根据配置构建特征源。返回的 close 函数释放底层连接，调用方负责调用。
// m 用于 feast 源在未配置 feature_refs 时取得特征名。
func BuildLookup(ctx context.Context, cfg *Config, m *model.LinearModel, logger *zap.Logger) (feature.FeatureLookup, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }
	fc := cfg.Features

	var (
		lookup  feature.FeatureLookup
		closeFn = noop
	)
	switch fc.Source {
	case SourceFile:
		table, err := feature.LoadTable(fc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load players: %w", err)
		}
		logger.Debug("players loaded", zap.String("path", fc.Path), zap.Int("count", table.Len()))
		lookup = table

	case SourceMemory:
		table, err := feature.LoadTable(fc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load players: %w", err)
		}
		s := store.NewMemoryStore()
		sl := feature.NewStoreLookup(s, fc.KeyPrefix)
		if err := sl.Import(ctx, table.Players()); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("import players: %w", err)
		}
		lookup, closeFn = sl, s.Close

	case SourceRedis:
		s, err := store.NewRedisStore(fc.Redis.Addr, fc.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		sl := feature.NewStoreLookup(s, fc.KeyPrefix)
		if fc.Path != "" {
			table, err := feature.LoadTable(fc.Path)
			if err != nil {
				s.Close()
				return nil, nil, fmt.Errorf("load players: %w", err)
			}
			if err := sl.Import(ctx, table.Players()); err != nil {
				s.Close()
				return nil, nil, fmt.Errorf("import players: %w", err)
			}
			logger.Info("players imported into redis", zap.String("addr", fc.Redis.Addr), zap.Int("count", table.Len()))
		}
		lookup, closeFn = sl, s.Close

	case SourceFeast:
		refs := fc.Feast.FeatureRefs
		if len(refs) == 0 && m != nil {
			refs = m.Features()
		}
		fetcher, err := feature.NewGrpcFetcher(fc.Feast.Host, fc.Feast.Port)
		if err != nil {
			return nil, nil, err
		}
		fl, err := feature.NewFeastLookup(fetcher, fc.Feast.Project, fc.Feast.Entity, refs)
		if err != nil {
			fetcher.Close()
			return nil, nil, err
		}
		lookup, closeFn = fl, fl.Close

	default:
		return nil, nil, fmt.Errorf("config: unknown features.source %q", fc.Source)
	}

	if fc.CacheSize > 0 {
		cached, err := feature.NewCachedLookup(lookup, fc.CacheSize)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		lookup = cached
	}
	logger.Debug("feature lookup ready", zap.String("lookup", lookup.Name()))
	return lookup, closeFn, nil
}
