package match

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
)

// TextNode 在 pipeline 中对上游候选做文本匹配：得分替换为匹配得分，未命中的候选被丢弃。
// Query 为空时读取 rctx.Params["query"]；查询仍为空时不输出任何候选。
type TextNode struct {
	Matcher *Matcher
	Query   string
}

func (n *TextNode) Name() string        { return "match.text" }
func (n *TextNode) Kind() pipeline.Kind { return pipeline.KindMatch }

func (n *TextNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	query := n.Query
	if query == "" {
		query, _ = rctx.Param("query")
	}
	m := n.Matcher
	if m == nil {
		m = defaultMatcher
	}

	matched := m.MatchText(query, core.Items(items))
	if len(matched) == 0 {
		return nil, nil
	}
	// 保留上游候选上的 Label
	byID := make(map[string]*core.Candidate, len(items))
	for _, it := range items {
		if it != nil && it.Item != nil {
			if _, ok := byID[it.ID()]; !ok {
				byID[it.ID()] = it
			}
		}
	}
	for _, c := range matched {
		if up, ok := byID[c.ID()]; ok {
			for k, v := range up.Labels {
				c.PutLabel(k, v)
			}
		}
	}
	return matched, nil
}
