package model

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/fplkit/core"
)

func TestLoadLinearModel_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": 1,
		"kind": "linear_regression",
		"intercept": 1.0,
		"weights": [2.0, 0.5],
		"features": ["minutes", "goals"]
	}`), 0o644))

	m, err := LoadLinearModel(path)
	require.NoError(t, err)

	b, w := m.Params()
	assert.Equal(t, 1.0, b)
	assert.Equal(t, []float64{2.0, 0.5}, w)
	assert.Equal(t, []string{"minutes", "goals"}, m.Features())
	assert.Equal(t, 2, m.Dim())
	assert.Equal(t, "LinearRegression(n_features=2)", m.String())
}

func TestLoadLinearModel_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nintercept: -0.25\nweights: [0.1, 0.2, 0.3]\n"), 0o644))

	m, err := LoadLinearModel(path)
	require.NoError(t, err)
	assert.Equal(t, -0.25, m.Intercept())
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, m.Weights())
	assert.Nil(t, m.Features())
}

func TestLoadLinearModel_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "missing file", file: "absent.json"},
		{name: "empty file", file: "empty.json", content: " "},
		{name: "not json", file: "bad.json", content: "\x80\x03cmodel\n"},
		{name: "wrong version", file: "v2.json", content: `{"version":2,"intercept":0,"weights":[1]}`},
		{name: "wrong kind", file: "kind.json", content: `{"version":1,"kind":"ridge","intercept":0,"weights":[1]}`},
		{name: "unknown field", file: "extra.json", content: `{"version":1,"intercept":0,"weights":[1],"coef_":[1]}`},
		{name: "no weights", file: "noweights.json", content: `{"version":1,"intercept":3}`},
		{name: "feature count mismatch", file: "names.json", content: `{"version":1,"intercept":0,"weights":[1,2],"features":["a"]}`},
		{name: "unknown yaml field", file: "extra.yaml", content: "version: 1\nweights: [1]\nbias: 2\n"},
		{name: "trailing garbage", file: "garbage.json", content: `{"version":1,"intercept":0,"weights":[1]} GARBAGE{{{`},
		{name: "concatenated json", file: "twice.json", content: `{"version":1,"intercept":0,"weights":[1]}{"version":1,"intercept":0,"weights":[2]}`},
		{name: "second yaml document", file: "twice.yaml", content: "version: 1\nweights: [1]\n---\nversion: 1\nweights: [2]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}
			_, err := LoadLinearModel(path)
			require.Error(t, err)
			assert.True(t, core.IsDeserialization(err), "want deserialization error, got %v", err)
		})
	}
}

func TestLinearModel_SaveLoadRoundTrip(t *testing.T) {
	orig, err := NewLinearModel([]float64{0.031, -1.75, 4.2e-3}, 0.6180339887, "minutes", "cards", "ict")
	require.NoError(t, err)

	for _, name := range []string{"model.json", "model.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, orig.Save(path))

			got, err := LoadLinearModel(path)
			require.NoError(t, err)
			assert.InDelta(t, orig.Intercept(), got.Intercept(), 1e-12)
			assert.InDeltaSlice(t, orig.Weights(), got.Weights(), 1e-12)
			assert.Equal(t, orig.Features(), got.Features())
		})
	}
}

func TestLinearModel_Immutable(t *testing.T) {
	weights := []float64{1, 2}
	m, err := NewLinearModel(weights, 0)
	require.NoError(t, err)

	weights[0] = 99
	_, w := m.Params()
	w[1] = 99
	assert.Equal(t, []float64{1, 2}, m.Weights())
}

func TestLinearModel_EncodeJSON(t *testing.T) {
	m, err := NewLinearModel([]float64{2, 0.5}, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Encode(&buf, FormatJSON))
	assert.True(t, strings.Contains(buf.String(), `"kind": "linear_regression"`))

	got, err := DecodeLinearModel(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, m.Weights(), got.Weights())
}

func TestNewLinearModel_Invalid(t *testing.T) {
	_, err := NewLinearModel(nil, 1)
	assert.True(t, core.IsInvalidInput(err))
}
