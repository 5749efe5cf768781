package predict

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rushteam/fplkit/core"
	"github.com/rushteam/fplkit/feature"
	"github.com/rushteam/fplkit/model"
	"github.com/rushteam/fplkit/pkg/dsl"
	"github.com/rushteam/fplkit/store"
)

func newTestModel(t *testing.T) *model.LinearModel {
	t.Helper()
	m, err := model.NewLinearModel([]float64{2.0, 0.5}, 1.0)
	require.NoError(t, err)
	return m
}

var players = map[string][]float64{
	"Salah":   {3, 4},    // 9
	"Haaland": {4, 2},    // 10
	"Saka":    {2, 2},    // 6
	"Bench":   {-3, -10}, // -10 -> 0
	"Broken":  {1},
}

// onlyLookup 隐藏 BatchLookup/Lister，强制走并发逐个查找的路径。
type onlyLookup struct{ feature.FeatureLookup }

func TestPredictor_PredictPoints(t *testing.T) {
	ctx := context.Background()
	p := New(newTestModel(t), feature.NewMapLookup(players), WithLogger(zaptest.NewLogger(t)))

	got, err := p.PredictPoints(ctx, "Salah")
	require.NoError(t, err)
	assert.Equal(t, 9, got)

	got, err = p.PredictPoints(ctx, "Bench")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = p.PredictPoints(ctx, "Nobody")
	assert.True(t, core.IsLookup(err))

	_, err = p.PredictPoints(ctx, "Broken")
	assert.True(t, core.IsDimensionMismatch(err))
}

func TestPredictor_MaxPoints(t *testing.T) {
	p := New(newTestModel(t), feature.NewMapLookup(players), WithOptions(Options{MaxPoints: 8}))
	got, err := p.PredictPoints(context.Background(), "Haaland")
	require.NoError(t, err)
	assert.Equal(t, 8, got)
}

func TestPredictor_PredictMany(t *testing.T) {
	ctx := context.Background()
	names := []string{"Saka", "Salah", "Haaland"}

	s := store.NewMemoryStore()
	defer s.Close()
	sl := feature.NewStoreLookup(s, "")
	require.NoError(t, sl.Import(ctx, players))

	lookups := map[string]feature.FeatureLookup{
		"batch table": feature.NewMapLookup(players),
		"store":       sl,
		"fan out":     onlyLookup{feature.NewMapLookup(players)},
	}
	for name, l := range lookups {
		t.Run(name, func(t *testing.T) {
			p := New(newTestModel(t), l, WithMaxConcurrent(2))
			got, err := p.PredictMany(ctx, names)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "Saka", got[0].Name)
			assert.Equal(t, []int{6, 9, 10}, []int{got[0].Points, got[1].Points, got[2].Points})
			assert.InDelta(t, 9.0, got[1].Raw, 1e-9)

			_, err = p.PredictMany(ctx, []string{"Salah", "Nobody"})
			assert.True(t, core.IsLookup(err), "got %v", err)

			_, err = p.PredictMany(ctx, []string{"Broken"})
			assert.True(t, core.IsDimensionMismatch(err), "got %v", err)
		})
	}
}

func TestPredictor_ConcurrentReaders(t *testing.T) {
	p := New(newTestModel(t), feature.NewMapLookup(players))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.PredictPoints(context.Background(), "Salah")
			assert.NoError(t, err)
			assert.Equal(t, 9, got)
		}()
	}
	wg.Wait()
}

func TestPredictor_Rank(t *testing.T) {
	ctx := context.Background()
	table := map[string][]float64{}
	for k, v := range players {
		if k != "Broken" {
			table[k] = v
		}
	}
	p := New(newTestModel(t), feature.NewMapLookup(table))

	got, err := p.Rank(ctx, RankRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Haaland", "Salah", "Saka", "Bench"}, estimateNames(got))

	filter, err := dsl.Compile("player.points >= 6 && stats[0] < 4.0")
	require.NoError(t, err)
	got, err = p.Rank(ctx, RankRequest{Filter: filter})
	require.NoError(t, err)
	assert.Equal(t, []string{"Salah", "Saka"}, estimateNames(got))

	got, err = p.Rank(ctx, RankRequest{Names: []string{"Bench", "Saka", "Salah"}, TopN: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Salah", "Saka"}, estimateNames(got))
}

func TestPredictor_RankTieBreak(t *testing.T) {
	m, err := model.NewLinearModel([]float64{1}, 0)
	require.NoError(t, err)
	p := New(m, feature.NewMapLookup(map[string][]float64{
		"B": {5.2}, "A": {5.2}, "C": {4.6},
	}))
	got, err := p.Rank(context.Background(), RankRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, estimateNames(got))
}

func TestPredictor_RankNeedsLister(t *testing.T) {
	p := New(newTestModel(t), onlyLookup{feature.NewMapLookup(players)})
	_, err := p.Rank(context.Background(), RankRequest{})
	assert.True(t, core.IsNotSupported(err))
}

func estimateNames(ests []core.Estimate) []string {
	out := make([]string, len(ests))
	for i, e := range ests {
		out[i] = e.Name
	}
	return out
}
