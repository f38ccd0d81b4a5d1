package filter

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/pkg/utils"
)

// FilterNode 组合多个过滤器，任一过滤器判定剔除即剔除。
// 被剔除的候选会打上 filtered=<过滤器名> 的 Label。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	active := n.bind(ctx, rctx)
	out := make([]*core.Candidate, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if reason, drop := firstMatch(ctx, rctx, active, item); drop {
			item.PutLabel(utils.KeyFiltered, utils.Label{Value: reason, Source: "filter"})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// bind 把实现了 Binder 的过滤器换成本次请求的版本；Bind 失败的过滤器本次不生效。
func (n *FilterNode) bind(ctx context.Context, rctx *core.RecommendContext) []Filter {
	active := make([]Filter, 0, len(n.Filters))
	for _, f := range n.Filters {
		b, ok := f.(Binder)
		if !ok {
			active = append(active, f)
			continue
		}
		bound, err := b.Bind(ctx, rctx)
		if err != nil || bound == nil {
			continue
		}
		active = append(active, bound)
	}
	return active
}

func firstMatch(ctx context.Context, rctx *core.RecommendContext, filters []Filter, item *core.Candidate) (string, bool) {
	for _, f := range filters {
		drop, err := f.ShouldFilter(ctx, rctx, item)
		if err != nil {
			continue
		}
		if drop {
			return f.Name(), true
		}
	}
	return "", false
}
