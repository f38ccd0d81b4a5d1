package rank

import "github.com/rushteam/tastekit/core"

// RecommendBy 按单个维度筛选目录后按 avg_rating 降序返回，不参考偏好画像。
// 单值维度要求取值完全相等；flavor_profile 要求风味集合包含 value。
// 未知维度返回空。
func RecommendBy(dim core.Dimension, value string, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	if limit <= 0 {
		limit = core.DefaultRecommendLimit
	}
	if _, ok := core.ParseDimension(string(dim)); !ok {
		return nil
	}

	matched := make([]*core.CatalogItem, 0)
	for _, it := range catalog {
		if it != nil && MatchesDimension(it, dim, value) {
			matched = append(matched, it)
		}
	}

	out := core.CandidatesOf(matched)
	byAvgRating(out, "by_"+string(dim))
	return core.Truncate(out, limit)
}

// MatchesDimension 判断物品在某个维度上是否等于（或对风味而言包含）value。
func MatchesDimension(it *core.CatalogItem, dim core.Dimension, value string) bool {
	if dim == core.DimFlavorProfile {
		return it.HasFlavor(value)
	}
	v, ok := it.Value(dim)
	return ok && v == value
}

func RecommendByCountry(country string, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	return RecommendBy(core.DimCountry, country, catalog, limit)
}

func RecommendByMilkType(milkType string, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	return RecommendBy(core.DimMilkType, milkType, catalog, limit)
}

func RecommendByMaturation(maturation string, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	return RecommendBy(core.DimMaturation, maturation, catalog, limit)
}

func RecommendByFlavor(flavor string, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	return RecommendBy(core.DimFlavorProfile, flavor, catalog, limit)
}
