package rerank

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
)

// TopNNode 控制返回数量，放在排序与多样性之后。
// MinScore 不为空时先丢弃分数低于它的候选，再截取前 N 个。
type TopNNode struct {
	N        int // <= 0 时不截断
	MinScore *float64
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.MinScore != nil {
		kept := make([]*core.Candidate, 0, len(items))
		for _, it := range items {
			if it.Score >= *n.MinScore {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	return core.Truncate(items, n.N), nil
}
