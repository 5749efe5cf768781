package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/fplkit/core"
)

func TestFilter_Match(t *testing.T) {
	est := core.Estimate{Name: "Salah", Stats: []float64{2700, 19}, Raw: 7.4, Points: 7}

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"player.points >= 6", true},
		{"player.points > 7", false},
		{`player.name == "Salah"`, true},
		{`player.name.startsWith("K")`, false},
		{"player.raw > 7.0 && stats[1] > 10.0", true},
		{"size(stats) == 2", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := f.Match(est)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, expr := range []string{"player.points >=", "1 + 2", `"text"`} {
		t.Run(expr, func(t *testing.T) {
			_, err := Compile(expr)
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestFilter_NonBoolAtRuntime(t *testing.T) {
	f, err := Compile("player.name")
	require.NoError(t, err)
	_, err = f.Match(core.Estimate{Name: "Saka"})
	require.Error(t, err)
}

func TestFilter_NilMatchesAll(t *testing.T) {
	var f *Filter
	ok, err := f.Match(core.Estimate{})
	require.NoError(t, err)
	assert.True(t, ok)
}
