package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/fplkit/core"
	"github.com/rushteam/fplkit/model"
)

// setupFiles 写入一个模型和一张球员表，返回两者路径
func setupFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	m, err := model.NewLinearModel([]float64{2.0, 0.5}, 1.0, "goals", "assists")
	require.NoError(t, err)
	require.NoError(t, m.Save(modelPath))

	playersPath := filepath.Join(dir, "players.yaml")
	require.NoError(t, os.WriteFile(playersPath, []byte(`players:
  Salah: [3, 4]
  Haaland: [4, 2]
  Saka: [2, 2]
  Bench: [-3, -10]
  Broken: [1]
`), 0o644))
	return modelPath, playersPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParamsCmd(t *testing.T) {
	modelPath, _ := setupFiles(t)

	out, err := run(t, "params", "--model", modelPath)
	require.NoError(t, err)
	assert.Equal(t, "LinearRegression(n_features=2)\nIntercept: 1\nCoefficients: [2 0.5]\nFeatures: [goals assists]\n", out)

	out, err = run(t, "params", "--model", modelPath, "-o", "json")
	require.NoError(t, err)
	var view paramsView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 1.0, view.Intercept)
	assert.Equal(t, []float64{2, 0.5}, view.Coefficients)
}

func TestParamsCmd_MissingModel(t *testing.T) {
	_, err := run(t, "params", "--model", filepath.Join(t.TempDir(), "model.pkl"))
	require.Error(t, err)
	assert.True(t, core.IsDeserialization(err))
}

func TestPredictCmd(t *testing.T) {
	modelPath, playersPath := setupFiles(t)

	out, err := run(t, "predict", "-m", modelPath, "-p", playersPath, "Salah", "Bench")
	require.NoError(t, err)
	assert.Equal(t, "Salah\t9\nBench\t0\n", out)

	out, err = run(t, "predict", "-m", modelPath, "-p", playersPath, "-v", "Salah")
	require.NoError(t, err)
	assert.Equal(t, []string{"Salah", "9", "9.0000", "[3", "4]"}, strings.Fields(out))

	_, err = run(t, "predict", "-m", modelPath, "-p", playersPath, "Nobody")
	assert.True(t, core.IsLookup(err))

	_, err = run(t, "predict", "-m", modelPath, "-p", playersPath, "Broken")
	assert.True(t, core.IsDimensionMismatch(err))

	_, err = run(t, "predict", "-m", modelPath, "-p", playersPath)
	require.Error(t, err)
}

func TestRankCmd(t *testing.T) {
	modelPath, playersPath := setupFiles(t)

	out, err := run(t, "rank", "-m", modelPath, "-p", playersPath, "-o", "json",
		"--where", "player.points >= 6", "--top", "2", "Salah", "Haaland", "Saka", "Bench")
	require.NoError(t, err)

	var views []estimateView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, estimateView{Rank: 1, Name: "Haaland", Points: 10, Raw: 10}, views[0])
	assert.Equal(t, "Salah", views[1].Name)

	// 不传名字时对全表排行，Broken 维度不一致导致整体失败
	_, err = run(t, "rank", "-m", modelPath, "-p", playersPath)
	assert.True(t, core.IsDimensionMismatch(err))

	_, err = run(t, "rank", "-m", modelPath, "-p", playersPath, "--where", "player.points +")
	assert.True(t, core.IsInvalidInput(err))
}

func TestModelWriteAndConvert(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "m.json")
	yamlPath := filepath.Join(dir, "m.yaml")

	_, err := run(t, "model", "write", "--intercept", "1.5", "--weights", "0.25,-1", "--out", jsonPath)
	require.NoError(t, err)
	_, err = run(t, "model", "convert", jsonPath, yamlPath)
	require.NoError(t, err)

	m, err := model.LoadLinearModel(yamlPath)
	require.NoError(t, err)
	b, w := m.Params()
	assert.Equal(t, 1.5, b)
	assert.Equal(t, []float64{0.25, -1}, w)
}

func TestConfigFile(t *testing.T) {
	modelPath, playersPath := setupFiles(t)
	cfgPath := filepath.Join(t.TempDir(), "fplkit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
model:
  path: `+modelPath+`
features:
  source: memory
  path: `+playersPath+`
predict:
  max_points: 9
`), 0o644))

	out, err := run(t, "predict", "-c", cfgPath, "Haaland")
	require.NoError(t, err)
	assert.Equal(t, []string{"Haaland", "9"}, strings.Fields(out))
}

func TestBadOutputFormat(t *testing.T) {
	modelPath, _ := setupFiles(t)
	_, err := run(t, "params", "-m", modelPath, "-o", "xml")
	require.Error(t, err)
}

func TestSampleData(t *testing.T) {
	out, err := run(t, "rank", "-m", "../data/model.json", "-p", "../data/players.yaml", "--top", "3", "-o", "json")
	require.NoError(t, err)

	var views []estimateView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 3)
	assert.Equal(t, "Haaland", views[0].Name)
	assert.Equal(t, "Salah", views[1].Name)
	assert.Equal(t, views[0].Points, views[1].Points)
	assert.Equal(t, "Palmer", views[2].Name)
}
