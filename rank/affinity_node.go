package rank

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/pkg/utils"
)

// AffinityNode 是个性化排序 Node：
// - 使用 rctx.Profile 为每个候选打亲和分，并按分数降序稳定排序
// - 画像为空时按 avg_rating 排序（热门兜底）
// - 写入 labels：rank_model
//
// 截断交给 rerank.TopNNode。
type AffinityNode struct {
	Scorer *AffinityScorer // 为空时使用默认权重
}

func (n *AffinityNode) Name() string        { return "rank.affinity" }
func (n *AffinityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *AffinityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(items) == 0 {
		return items, nil
	}

	var p *core.PreferenceProfile
	if rctx != nil {
		p = rctx.Profile
	}
	if p.IsEmpty() {
		byAvgRating(items, "trending")
		return items, nil
	}

	scorer := n.Scorer
	if scorer == nil {
		scorer = defaultAffinity
	}
	for _, it := range items {
		it.Score = scorer.Score(p, it.Item)
		it.PutLabel(utils.KeyRankModel, utils.RankLabel("affinity"))
	}
	core.SortByScore(items)
	return items, nil
}

// TrendingNode 按 avg_rating 降序稳定排序。
type TrendingNode struct{}

func (n *TrendingNode) Name() string        { return "rank.trending" }
func (n *TrendingNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *TrendingNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	byAvgRating(items, "trending")
	return items, nil
}
