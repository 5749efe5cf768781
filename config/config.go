package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/fplkit/pkg/logging"
	"github.com/rushteam/fplkit/predict"
)

// 特征源类型
const (
	SourceFile   = "file"   // YAML/JSON 球员表
	SourceMemory = "memory" // 球员表灌入内存 Store
	SourceRedis  = "redis"  // Redis 中按 key_prefix 存放的向量
	SourceFeast  = "feast"  // Feast 在线特征服务
)

// Config 是 fplkit 的配置结构（支持 YAML/JSON）。
type Config struct {
	Model    ModelConfig    `yaml:"model" json:"model"`
	Features FeatureConfig  `yaml:"features" json:"features"`
	Predict  PredictConfig  `yaml:"predict" json:"predict"`
	Log      logging.Config `yaml:"log" json:"log"`
}

type ModelConfig struct {
	Path string `yaml:"path" json:"path"`
}

type FeatureConfig struct {
	Source    string      `yaml:"source" json:"source"`
	Path      string      `yaml:"path" json:"path"`             // file/memory 源的球员表；redis 源可选，用于导入
	KeyPrefix string      `yaml:"key_prefix" json:"key_prefix"` // memory/redis 源的 key 前缀
	CacheSize int         `yaml:"cache_size" json:"cache_size"` // 大于 0 时启用 LRU 缓存
	Redis     RedisConfig `yaml:"redis" json:"redis"`
	Feast     FeastConfig `yaml:"feast" json:"feast"`
}

type RedisConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	DB   int    `yaml:"db" json:"db"`
}

type FeastConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Project string `yaml:"project" json:"project"`
	Entity  string `yaml:"entity" json:"entity"`

	// FeatureRefs 为空时使用模型文件中的 features
	FeatureRefs []string `yaml:"feature_refs" json:"feature_refs"`
}

type PredictConfig struct {
	Rounding      string `yaml:"rounding" json:"rounding"`             // half_even（默认）/ half_away
	MaxPoints     int    `yaml:"max_points" json:"max_points"`         // 0 表示不设上限
	MaxConcurrent int    `yaml:"max_concurrent" json:"max_concurrent"` // 0 表示不限制
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Model: ModelConfig{Path: "data/model.json"},
		Features: FeatureConfig{
			Source: SourceFile,
			Path:   "data/players.yaml",
		},
		Predict: PredictConfig{
			Rounding:      string(predict.RoundHalfEven),
			MaxConcurrent: 8,
		},
		Log: logging.Config{Level: "warn", Format: logging.FormatConsole},
	}
}

// Load 根据扩展名加载配置：.json 为 JSON，其它为 YAML。
func Load(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadFromJSON(path)
	}
	return LoadFromYAML(path)
}

// LoadFromYAML 从 YAML 文件加载配置，未出现的字段保留默认值。
// 不做校验，调用方在应用命令行覆盖后调用 Validate。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置，未出现的字段保留默认值。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return cfg, nil
}

// Validate 检查配置的一致性
func (c *Config) Validate() error {
	if c.Model.Path == "" {
		return fmt.Errorf("config: model.path is required")
	}
	switch c.Features.Source {
	case SourceFile, SourceMemory:
		if c.Features.Path == "" {
			return fmt.Errorf("config: features.path is required for source %q", c.Features.Source)
		}
	case SourceRedis:
		if c.Features.Redis.Addr == "" {
			return fmt.Errorf("config: features.redis.addr is required for source %q", SourceRedis)
		}
	case SourceFeast:
		if c.Features.Feast.Host == "" || c.Features.Feast.Project == "" {
			return fmt.Errorf("config: features.feast.host and features.feast.project are required for source %q", SourceFeast)
		}
	default:
		return fmt.Errorf("config: unknown features.source %q", c.Features.Source)
	}
	if c.Features.CacheSize < 0 {
		return fmt.Errorf("config: features.cache_size must not be negative")
	}
	if _, err := predict.ParseRounding(c.Predict.Rounding); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Predict.MaxPoints < 0 {
		return fmt.Errorf("config: predict.max_points must not be negative")
	}
	return nil
}

// PredictOptions 把配置转换为 predict.Options
func (c *Config) PredictOptions() predict.Options {
	rounding, _ := predict.ParseRounding(c.Predict.Rounding)
	return predict.Options{Rounding: rounding, MaxPoints: c.Predict.MaxPoints}
}
