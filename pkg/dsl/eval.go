package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/fplkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("player", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("stats", cel.ListType(cel.DoubleType)),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Filter 是预测结果的筛选表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可并发多次求值。
//
// 可用变量：
//   - player.name   球员名字（string）
//   - player.points 预测积分（int）
//   - player.raw    未取整的线性输出（double）
//   - stats         统计特征向量（list<double>）
//
// 示例：
//   - `player.points >= 6`
//   - `player.name.startsWith("S") && stats[0] > 2000.0`
//   - `player.raw > 4.5 || size(stats) == 0`
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；空表达式匹配所有结果。
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return &Filter{}, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.WrapDomainError(core.ModulePredict, core.ErrorCodeInvalidInput,
			fmt.Sprintf("dsl: compile %q", expr), issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, core.NewDomainError(core.ModulePredict, core.ErrorCodeInvalidInput,
			fmt.Sprintf("dsl: expression %q must return bool, got %s", expr, ast.OutputType()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String 返回原始表达式
func (f *Filter) String() string { return f.expr }

// Match 对单个预测结果求值。
func (f *Filter) Match(est core.Estimate) (bool, error) {
	if f == nil || f.prg == nil {
		return true, nil
	}

	stats := est.Stats
	if stats == nil {
		stats = []float64{}
	}
	out, _, err := f.prg.Eval(map[string]any{
		"player": map[string]any{
			"name":   est.Name,
			"points": int64(est.Points),
			"raw":    est.Raw,
		},
		"stats": stats,
	})
	if err != nil {
		return false, fmt.Errorf("dsl: eval %q for %q: %w", f.expr, est.Name, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("dsl: expression must return boolean, got %T", out.Value())
	}
	return result, nil
}
