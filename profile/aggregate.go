// Package profile 把用户的显式评分聚合为偏好画像。
package profile

import (
	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pkg/utils"
)

// Aggregate 根据评分与目录构建归一化的偏好画像。
//
// 每条评分把 rating 累加到物品在 milk_type / country / maturation 上的取值，
// flavor_profile 中的每个风味都累加一次。累加完成后所有桶统一除以有效评分总数
// （不是该取值出现的次数），avg_rating = 评分和 / 有效评分总数。
//
// 目录中找不到的评分直接跳过；没有有效评分时返回空画像。
func Aggregate(ratings core.Ratings, catalog []*core.CatalogItem) *core.PreferenceProfile {
	p := core.NewPreferenceProfile()
	if len(ratings) == 0 || len(catalog) == 0 {
		return p
	}

	idx := core.IndexCatalog(catalog)

	var sum float64
	var count int
	for _, id := range ratings.SortedIDs() {
		r := ratings[id]
		cheeseID := r.CheeseID
		if cheeseID == "" {
			cheeseID = id
		}
		item, ok := idx[cheeseID]
		if !ok {
			continue
		}
		v := float64(r.Rating)
		p.MilkType[item.MilkType] += v
		p.Country[item.Country] += v
		p.Maturation[item.Maturation] += v
		for _, f := range item.FlavorProfile {
			p.FlavorProfile[f] += v
		}
		sum += v
		count++
	}

	if count == 0 {
		return core.NewPreferenceProfile()
	}

	n := float64(count)
	for _, dim := range core.Dimensions {
		bucket := p.Bucket(dim)
		for k := range bucket {
			bucket[k] /= n
		}
	}
	p.AvgRating = sum / n
	return p
}

// Explain 给出每个维度上最偏好的取值，用于"因为你喜欢……"之类的解释标签。
// 空画像返回空 map。
func Explain(p *core.PreferenceProfile) map[string]utils.Label {
	out := make(map[string]utils.Label)
	if p.IsEmpty() {
		return out
	}
	for _, dim := range core.Dimensions {
		if v, _, ok := p.Top(dim); ok {
			out["prefer_"+string(dim)] = utils.Label{Value: v, Source: "profile"}
		}
	}
	return out
}
