package feature

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/fplkit/core"
	"github.com/rushteam/fplkit/pkg/conv"
)

// MapLookup 是内存中的球员特征表，构建后只读，可并发访问。
type MapLookup struct {
	players map[string][]float64
}

// NewMapLookup 用给定表创建 MapLookup，表内容会被复制。
func NewMapLookup(players map[string][]float64) *MapLookup {
	m := &MapLookup{players: make(map[string][]float64, len(players))}
	for name, stats := range players {
		m.players[name] = copyVector(stats)
	}
	return m
}

func (m *MapLookup) Name() string { return "table" }

func (m *MapLookup) Lookup(_ context.Context, name string) ([]float64, error) {
	stats, ok := m.players[name]
	if !ok {
		return nil, NotFound(name)
	}
	return copyVector(stats), nil
}

func (m *MapLookup) BatchLookup(_ context.Context, names []string) (map[string][]float64, error) {
	out := make(map[string][]float64, len(names))
	for _, name := range names {
		if stats, ok := m.players[name]; ok {
			out[name] = copyVector(stats)
		}
	}
	return out, nil
}

// Names 返回按字典序排序的全部球员名字
func (m *MapLookup) Names(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.players))
	for name := range m.players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Len 返回球员数量
func (m *MapLookup) Len() int { return len(m.players) }

// Players 返回表的副本，用于灌入其它特征源（如 Store）。
func (m *MapLookup) Players() map[string][]float64 {
	out := make(map[string][]float64, len(m.players))
	for name, stats := range m.players {
		out[name] = copyVector(stats)
	}
	return out
}

// tableFile 是球员表文件格式（YAML/JSON）：
//
//	players:
//	  Salah: [2700, 19, 12]
//	  Haaland: [2500, 27, 5]
//
// 数值可写成整数或浮点数。
type tableFile struct {
	Players map[string][]any `yaml:"players" json:"players"`
}

// LoadTable 从 YAML/JSON 文件加载球员表，格式由扩展名决定（.json 为 JSON，其它为 YAML）。
func LoadTable(path string) (*MapLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var raw tableFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	players := make(map[string][]float64, len(raw.Players))
	for name, values := range raw.Players {
		stats, idx, ok := conv.ToFloat64Slice(values)
		if !ok {
			return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
				fmt.Sprintf("feature: player %q stat %d is not numeric: %v", name, idx, values[idx]))
		}
		players[name] = stats
	}
	return &MapLookup{players: players}, nil
}

var (
	_ BatchLookup = (*MapLookup)(nil)
	_ Lister      = (*MapLookup)(nil)
)
