package recall

import (
	"context"

	"github.com/rushteam/tastekit/core"
)

// Source 表示一个可复用的召回源（全目录 / 用户行为），可被 Merge 组合。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}
