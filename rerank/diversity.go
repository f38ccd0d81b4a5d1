package rerank

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
)

// Diversity 是多样性重排：同一取值最多保留 MaxPerValue 个候选（保留排序靠前的）。
//
// Field 取值来源：
//   - producer / country / region / milk_type / maturation / designation：物品字段
//   - 其他：候选上同名 label 的 Value
//
// 取值为空（可选字段为 nil、label 不存在）的候选不受限制。
type Diversity struct {
	Field       string // 默认 "producer"
	MaxPerValue int    // 默认 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(items) == 0 {
		return items, nil
	}

	field := n.Field
	if field == "" {
		field = "producer"
	}
	limit := n.MaxPerValue
	if limit <= 0 {
		limit = 1
	}

	counts := make(map[string]int, 32)
	out := make([]*core.Candidate, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		v := fieldValue(it, field)
		if v == "" {
			out = append(out, it)
			continue
		}
		if counts[v] >= limit {
			continue
		}
		counts[v]++
		out = append(out, it)
	}

	return out, nil
}

func fieldValue(c *core.Candidate, field string) string {
	if it := c.Item; it != nil {
		switch field {
		case "producer":
			v, _ := core.Deref(it.Producer)
			return v
		case "region":
			v, _ := core.Deref(it.Region)
			return v
		case "designation":
			v, _ := core.Deref(it.Designation)
			return v
		case "country", "milk_type", "maturation":
			v, _ := it.Value(core.Dimension(field))
			return v
		}
	}
	if lbl, ok := c.Labels[field]; ok {
		return lbl.Value
	}
	return ""
}
