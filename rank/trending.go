package rank

import (
	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pkg/utils"
)

// Trending 是没有个人信号时的兜底排序：按目录自身的 avg_rating 降序，
// 相同评分保持目录顺序。Score 即 avg_rating。
func Trending(catalog []*core.CatalogItem, limit int) []*core.Candidate {
	if limit <= 0 {
		limit = core.DefaultRecommendLimit
	}
	out := core.CandidatesOf(catalog)
	byAvgRating(out, "trending")
	return core.Truncate(out, limit)
}

// byAvgRating 用 avg_rating 作为分数并稳定排序。
func byAvgRating(items []*core.Candidate, model string) {
	for _, c := range items {
		c.Score = c.Item.AvgRating
		c.PutLabel(utils.KeyRankModel, utils.RankLabel(model))
	}
	core.SortByScore(items)
}
