// Package filter 在排序前剔除不该出现的候选：黑名单、用户已有信号、维度取值以及 CEL 表达式。
package filter

import (
	"context"

	"github.com/rushteam/tastekit/core"
)

// Filter 判断一个候选是否应该被剔除，返回 true 表示剔除。
// 返回错误时 FilterNode 保留该候选。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Candidate) (bool, error)
}

// Binder 由需要按请求加载数据的过滤器实现（例如从存储读取黑名单）。
// FilterNode 在每次 Process 开始时调用 Bind 一次，用返回的 Filter 判定本次全部候选，
// 原过滤器本身不保存请求状态。
type Binder interface {
	Bind(ctx context.Context, rctx *core.RecommendContext) (Filter, error)
}
