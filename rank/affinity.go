package rank

import (
	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pkg/utils"
)

// AffinityScorer 用偏好画像给目录物品打分：
//
//	score = w.MilkType   * profile.milk_type[item.milk_type]
//	      + w.Country    * profile.country[item.country]
//	      + w.Maturation * profile.maturation[item.maturation]
//	      + w.Flavor     * sum(profile.flavor_profile[f] for f in item.flavor_profile)
//	      + w.RatingBonus (item.avg_rating >= profile.avg_rating)
//
// 权重是固定常量（可通过配置调整），不是学习得到的。
type AffinityScorer struct {
	Weights core.AffinityWeights
}

func NewAffinityScorer(w core.AffinityWeights) *AffinityScorer {
	return &AffinityScorer{Weights: w}
}

var defaultAffinity = NewAffinityScorer(core.DefaultAffinityWeights())

// Score 计算单个物品的亲和分。
func (s *AffinityScorer) Score(p *core.PreferenceProfile, item *core.CatalogItem) float64 {
	if p == nil || item == nil {
		return 0
	}
	w := s.Weights
	score := w.MilkType*p.MilkType[item.MilkType] +
		w.Country*p.Country[item.Country] +
		w.Maturation*p.Maturation[item.Maturation]

	var flavor float64
	for _, f := range item.FlavorProfile {
		flavor += p.FlavorProfile[f]
	}
	score += w.Flavor * flavor

	if item.AvgRating >= p.AvgRating {
		score += w.RatingBonus
	}
	return score
}

// Recommend 按亲和分降序返回前 limit 个物品（limit <= 0 时取默认 6）。
// 画像为空时退化为热门排序 Trending。
func (s *AffinityScorer) Recommend(p *core.PreferenceProfile, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	if limit <= 0 {
		limit = core.DefaultRecommendLimit
	}
	if p.IsEmpty() {
		return Trending(catalog, limit)
	}

	out := core.CandidatesOf(catalog)
	for _, c := range out {
		c.Score = s.Score(p, c.Item)
		c.PutLabel(utils.KeyRankModel, utils.RankLabel("affinity"))
	}
	core.SortByScore(out)
	return core.Truncate(out, limit)
}

// Recommend 使用默认权重做个性化推荐。
func Recommend(p *core.PreferenceProfile, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	return defaultAffinity.Recommend(p, catalog, limit)
}
