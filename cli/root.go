package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/fplkit/config"
	"github.com/rushteam/fplkit/feature"
	"github.com/rushteam/fplkit/model"
	"github.com/rushteam/fplkit/pkg/logging"
	"github.com/rushteam/fplkit/predict"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// rootFlags 是所有子命令共享的全局参数
type rootFlags struct {
	configPath string
	modelPath  string
	players    string
	logLevel   string
	output     string
}

// env 是一次命令执行所需的已初始化依赖
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	model     *model.LinearModel
	lookup    feature.FeatureLookup
	predictor *predict.Predictor
	close     func() error
}

// NewRootCmd 构建 fplkit 命令树
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "fplkit",
		Short:         "Predict fantasy football player points from a linear model",
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVarP(&f.modelPath, "model", "m", "", "model artifact path (overrides model.path)")
	pf.StringVarP(&f.players, "players", "p", "", "player table path (overrides features.path)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&f.output, "output", "o", formatText, "output format: text, json, yaml")

	root.AddCommand(
		newParamsCmd(f),
		newPredictCmd(f),
		newRankCmd(f),
		newModelCmd(),
	)
	return root
}

// Execute 运行命令行，出错时打印到 stderr 并以 1 退出
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 读取配置文件（可选）并应用命令行覆盖
func (f *rootFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if f.modelPath != "" {
		cfg.Model.Path = f.modelPath
	}
	if f.players != "" {
		cfg.Features.Path = f.players
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, cfg.Validate()
}

// setup 加载配置、日志与模型；withLookup 为 true 时同时构建特征源与预测器。
func (f *rootFlags) setup(ctx context.Context, withLookup bool) (*env, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	m, err := model.LoadLinearModel(cfg.Model.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("model loaded", zap.String("path", cfg.Model.Path), zap.Int("features", m.Dim()))

	e := &env{cfg: cfg, logger: logger, model: m, close: func() error { return nil }}
	if !withLookup {
		return e, nil
	}

	lookup, closeFn, err := config.BuildLookup(ctx, cfg, m, logger)
	if err != nil {
		return nil, err
	}
	e.lookup, e.close = lookup, closeFn
	e.predictor = predict.New(m, lookup,
		predict.WithOptions(cfg.PredictOptions()),
		predict.WithMaxConcurrent(cfg.Predict.MaxConcurrent),
		predict.WithLogger(logger.Named("predict")),
	)
	return e, nil
}

func (e *env) shutdown() {
	if err := e.close(); err != nil {
		e.logger.Warn("close feature source", zap.Error(err))
	}
	_ = e.logger.Sync()
}
