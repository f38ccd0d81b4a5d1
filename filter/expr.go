package filter

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤候选：表达式为 true 时保留。
//
// 示例：
//
//	item.country == "España" && item.avg_rating >= 4.0
//	"Nutty" in item.flavor_profile
//	has(item.designation) && item.designation == "DOP"
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式；表达式非法时返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Candidate,
) (bool, error) {
	if item == nil || item.Item == nil {
		return true, nil
	}
	keep, err := f.program.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
