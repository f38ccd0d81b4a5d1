package core

import (
	"sort"

	"github.com/rushteam/tastekit/pkg/utils"
)

// Candidate 是推荐链路中的统一承载结构：目录物品、分数、标签。
// Labels 用于解释（为什么被推荐/匹配）；Score 只用于排序，不直接展示。
type Candidate struct {
	Item   *CatalogItem
	Score  float64
	Labels map[string]utils.Label
}

func NewCandidate(item *CatalogItem) *Candidate {
	return &Candidate{
		Item:   item,
		Labels: make(map[string]utils.Label),
	}
}

// ID 返回物品 ID；Item 为空时返回空字符串。
func (c *Candidate) ID() string {
	if c == nil || c.Item == nil {
		return ""
	}
	return c.Item.ID
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// CandidatesOf 把目录物品按原顺序包装成候选（分数为 0）。
func CandidatesOf(catalog []*CatalogItem) []*Candidate {
	out := make([]*Candidate, 0, len(catalog))
	for _, it := range catalog {
		if it == nil {
			continue
		}
		out = append(out, NewCandidate(it))
	}
	return out
}

// SortByScore 按分数降序稳定排序，分数相同保持输入顺序。
func SortByScore(items []*Candidate) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// Truncate 截取前 n 个；n <= 0 时不截断。
func Truncate(items []*Candidate, n int) []*Candidate {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// Items 取出候选中的目录物品。
func Items(items []*Candidate) []*CatalogItem {
	out := make([]*CatalogItem, 0, len(items))
	for _, c := range items {
		if c != nil && c.Item != nil {
			out = append(out, c.Item)
		}
	}
	return out
}
