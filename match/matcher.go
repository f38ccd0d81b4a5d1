// Package match 实现基于字段加权的文本匹配：搜索、联想建议以及标签识别结果的落地。
package match

import (
	"strings"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pkg/utils"
)

// Matcher 按字段权重把查询文本匹配到目录物品。
//
// 查询与字段统一转小写后做子串包含判断；每命中一个字段累加该字段的权重，
// flavor_profile 中每个包含查询的风味标签各累加一次（不设上限）。
// 可选字段为 nil 时视为无值，永不命中。
type Matcher struct {
	Weights core.MatchWeights
}

func NewMatcher(w core.MatchWeights) *Matcher {
	return &Matcher{Weights: w}
}

var defaultMatcher = NewMatcher(core.DefaultMatchWeights())

// Score 返回物品得分以及命中的字段列表。query 必须已转为小写。
func (m *Matcher) Score(query string, item *core.CatalogItem) (float64, []string) {
	if item == nil || query == "" {
		return 0, nil
	}
	w := m.Weights
	var (
		score  float64
		fields []string
	)
	hit := func(field, value string, weight float64) {
		if strings.Contains(strings.ToLower(value), query) {
			score += weight
			fields = append(fields, field)
		}
	}

	hit("name", item.Name, w.Name)
	if producer, ok := core.Deref(item.Producer); ok {
		hit("producer", producer, w.Producer)
	}
	hit("country", item.Country, w.Country)
	hit("milk_type", item.MilkType, w.MilkType)
	hit("maturation", item.Maturation, w.Maturation)
	if designation, ok := core.Deref(item.Designation); ok {
		hit("designation", designation, w.Designation)
	}

	flavorHits := 0
	for _, f := range item.FlavorProfile {
		if strings.Contains(strings.ToLower(f), query) {
			score += w.Flavor
			flavorHits++
		}
	}
	if flavorHits > 0 {
		fields = append(fields, "flavor_profile")
	}
	return score, fields
}

// MatchText 返回所有与查询相关的物品，按得分降序（稳定排序，目录顺序决胜）。
// 得分为 0 的物品被排除；空查询返回空。不做截断，由调用方决定取前几个。
func (m *Matcher) MatchText(query string, catalog []*core.CatalogItem) []*core.Candidate {
	q := normalize(query)
	if q == "" {
		return nil
	}

	out := make([]*core.Candidate, 0)
	for _, it := range catalog {
		score, fields := m.Score(q, it)
		if score <= 0 {
			continue
		}
		c := core.NewCandidate(it)
		c.Score = score
		c.PutLabel(utils.KeyMatchFields, utils.MatchLabel(strings.Join(fields, "|")))
		out = append(out, c)
	}
	core.SortByScore(out)
	return out
}

// MatchText 使用默认字段权重做文本匹配。
func MatchText(query string, catalog []*core.CatalogItem) []*core.Candidate {
	return defaultMatcher.MatchText(query, catalog)
}

// normalize 转小写。纯空白的查询视为空查询。
func normalize(query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	return strings.ToLower(query)
}
