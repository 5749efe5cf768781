package predict

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/fplkit/core"
	"github.com/rushteam/fplkit/feature"
	"github.com/rushteam/fplkit/model"
	"github.com/rushteam/fplkit/pkg/dsl"
)

// Predictor 组合模型与特征源，按球员名字预测积分。
// 构建后只读，可被多个 goroutine 并发使用。
type Predictor struct {
	Model  model.Regressor
	Lookup feature.FeatureLookup
	Options

	// MaxConcurrent 限制 PredictMany 的并发查找数（0 表示不限制）
	MaxConcurrent int

	logger *zap.Logger
}

// Option 配置 Predictor
type Option func(*Predictor)

// WithOptions 设置取整与截断规则
func WithOptions(opts Options) Option {
	return func(p *Predictor) { p.Options = opts }
}

// WithMaxConcurrent 设置 PredictMany 的最大并发数
func WithMaxConcurrent(n int) Option {
	return func(p *Predictor) { p.MaxConcurrent = n }
}

// WithLogger 设置日志，默认不输出
func WithLogger(l *zap.Logger) Option {
	return func(p *Predictor) { p.logger = l }
}

// New 创建 Predictor，默认使用 half_even 取整且不限制并发。
func New(m model.Regressor, lookup feature.FeatureLookup, opts ...Option) *Predictor {
	p := &Predictor{
		Model:  m,
		Lookup: lookup,
		Options: Options{
			Rounding: RoundHalfEven,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Estimate 预测单个球员，返回包含原始输出的完整结果。
func (p *Predictor) Estimate(ctx context.Context, name string) (core.Estimate, error) {
	stats, err := p.Lookup.Lookup(ctx, name)
	if err != nil {
		return core.Estimate{}, err
	}
	return p.estimate(name, stats)
}

func (p *Predictor) estimate(name string, stats []float64) (core.Estimate, error) {
	intercept, weights := p.Model.Params()
	raw, err := Raw(weights, intercept, stats)
	if err != nil {
		p.logger.Debug("dimension mismatch",
			zap.String("player", name), zap.Int("stats", len(stats)), zap.Int("weights", len(weights)))
		return core.Estimate{}, err
	}
	est := core.Estimate{
		Name:   name,
		Stats:  stats,
		Raw:    raw,
		Points: ToPoints(raw, p.Options),
	}
	p.logger.Debug("estimate",
		zap.String("player", name), zap.Float64("raw", raw), zap.Int("points", est.Points))
	return est, nil
}

// PredictPoints 预测单个球员的积分。未知名字返回 LookupError，维度不一致返回 DIMENSION_MISMATCH。
func (p *Predictor) PredictPoints(ctx context.Context, name string) (int, error) {
	est, err := p.Estimate(ctx, name)
	if err != nil {
		return 0, err
	}
	return est.Points, nil
}

// PredictMany 预测多名球员，结果与 names 顺序一致；任一失败即返回错误。
// 特征源支持 feature.BatchLookup 时一次取回，否则并发逐个查找。
func (p *Predictor) PredictMany(ctx context.Context, names []string) ([]core.Estimate, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if batch, ok := p.Lookup.(feature.BatchLookup); ok {
		return p.predictBatch(ctx, batch, names)
	}

	out := make([]core.Estimate, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	if p.MaxConcurrent > 0 {
		eg.SetLimit(p.MaxConcurrent)
	}
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			est, err := p.Estimate(egCtx, name)
			if err != nil {
				return err
			}
			out[i] = est
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Predictor) predictBatch(ctx context.Context, batch feature.BatchLookup, names []string) ([]core.Estimate, error) {
	found, err := batch.BatchLookup(ctx, names)
	if err != nil {
		return nil, err
	}
	out := make([]core.Estimate, len(names))
	for i, name := range names {
		stats, ok := found[name]
		if !ok {
			return nil, feature.NotFound(name)
		}
		if out[i], err = p.estimate(name, stats); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RankRequest 描述一次排行：names 为空时使用特征源中的全部球员。
type RankRequest struct {
	Names  []string
	Filter *dsl.Filter
	TopN   int // 0 表示不截断
}

// Rank 预测、筛选并按积分降序排序（积分相同时按原始输出降序，再按名字升序）。
func (p *Predictor) Rank(ctx context.Context, req RankRequest) ([]core.Estimate, error) {
	names := req.Names
	if len(names) == 0 {
		lister, ok := p.Lookup.(feature.Lister)
		if !ok {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotSupported,
				"predict: "+p.Lookup.Name()+" cannot list players, pass names explicitly")
		}
		var err error
		if names, err = lister.Names(ctx); err != nil {
			return nil, err
		}
	}

	all, err := p.PredictMany(ctx, names)
	if err != nil {
		return nil, err
	}

	kept := all[:0]
	for _, est := range all {
		ok, err := req.Filter.Match(est)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, est)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Points != kept[j].Points {
			return kept[i].Points > kept[j].Points
		}
		if kept[i].Raw != kept[j].Raw {
			return kept[i].Raw > kept[j].Raw
		}
		return kept[i].Name < kept[j].Name
	})

	if req.TopN > 0 && len(kept) > req.TopN {
		kept = kept[:req.TopN]
	}
	p.logger.Info("rank", zap.Int("candidates", len(names)), zap.Int("returned", len(kept)))
	return kept, nil
}
