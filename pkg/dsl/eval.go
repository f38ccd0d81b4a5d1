package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/tastekit/core"
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
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的候选过滤表达式，使用 CEL (Common Expression Language)。
// 编译一次，可在多个 goroutine 中重复执行。
//
// 可用变量：
//   - item：id / name / producer / country / region / milk_type / maturation /
//     flavor_profile / pairings / designation / avg_rating / score
//   - label：候选上的 label，label.rank_model 返回其 value
//   - rctx：user_id / scene / params / labels（用户级 label，例如 prefer_country）
//
// 可选字段（producer / region / designation）为空时不出现在 item 中，
// 请先用 has(item.designation) 判断存在性。
//
// 示例：
//   - `item.country == "España" && item.avg_rating >= 4.0`
//   - `"Nutty" in item.flavor_profile`
//   - `has(item.designation) && item.designation == "DOP"`
//   - `label.rank_model == "affinity" && item.score > 10.0`
//   - `has(rctx.labels.prefer_country) && item.country == rctx.labels.prefer_country`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 解析并编译表达式。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	if expr == "" {
		return &Program{}, nil
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "dsl: compile "+expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "dsl: program "+expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string {
	return p.expr
}

// Eval 对单个候选执行表达式，返回布尔结果。空表达式恒为 true。
func (p *Program) Eval(c *core.Candidate, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(c, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Evaluate 编译并执行一次表达式，便于一次性判断。
func Evaluate(expr string, c *core.Candidate, rctx *core.RecommendContext) (bool, error) {
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(c, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(c *core.Candidate, rctx *core.RecommendContext) map[string]interface{} {
	item := map[string]interface{}{}
	labels := map[string]string{}
	if c != nil {
		item["score"] = c.Score
		for k, v := range c.Labels {
			labels[k] = v.Value
		}
		if it := c.Item; it != nil {
			item["id"] = it.ID
			item["name"] = it.Name
			item["country"] = it.Country
			item["milk_type"] = it.MilkType
			item["maturation"] = it.Maturation
			item["flavor_profile"] = stringsOrEmpty(it.FlavorProfile)
			item["pairings"] = stringsOrEmpty(it.Pairings)
			item["avg_rating"] = it.AvgRating
			if v, ok := core.Deref(it.Producer); ok {
				item["producer"] = v
			}
			if v, ok := core.Deref(it.Region); ok {
				item["region"] = v
			}
			if v, ok := core.Deref(it.Designation); ok {
				item["designation"] = v
			}
		}
	}

	userLabels := map[string]string{}
	r := map[string]interface{}{
		"params": map[string]interface{}{},
		"labels": userLabels,
	}
	if rctx != nil {
		r["user_id"] = rctx.UserID
		r["scene"] = rctx.Scene
		if rctx.Params != nil {
			r["params"] = rctx.Params
		}
		for k, v := range rctx.Labels {
			userLabels[k] = v.Value
		}
	}

	return map[string]interface{}{
		"item":  item,
		"label": labels,
		"rctx":  r,
	}
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
