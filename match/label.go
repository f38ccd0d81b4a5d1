package match

import (
	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pkg/utils"
)

// Outcome 是一次标签识别落地的结果类型。
type Outcome string

const (
	OutcomeNotRecognized Outcome = "not_recognized" // 置信度不足，视为噪声
	OutcomeRecognized    Outcome = "recognized"     // 有精确匹配或搜索结果
	OutcomeNoMatch       Outcome = "no_match"       // 识别可信但目录中没有对应物品
)

// LabelResult 是标签识别结果落地到目录后的输出。
//   - Exact：识别服务给出的候选 ID 在目录中解析到的物品（保持原顺序）
//   - Search：对识别文本做 MatchText 的结果，作为次要列表或主结果
type LabelResult struct {
	Outcome    Outcome
	Text       string
	Confidence float64
	Exact      []*core.Candidate
	Search     []*core.Candidate
}

// Primary 返回应优先展示的列表：有精确匹配时是 Exact，否则是 Search。
func (r *LabelResult) Primary() []*core.Candidate {
	if len(r.Exact) > 0 {
		return r.Exact
	}
	return r.Search
}

// LabelPolicy 决定如何使用识别结果：
//   - confidence < MinConfidence：直接判定未识别，不运行文本匹配
//   - 有 candidate_ids：解析为精确匹配，同时附带完整的文本匹配结果
//   - 无 candidate_ids：只返回文本匹配的前 TopN 个
type LabelPolicy struct {
	MinConfidence float64
	TopN          int
	Matcher       *Matcher
}

func DefaultLabelPolicy() *LabelPolicy {
	return &LabelPolicy{
		MinConfidence: core.DefaultMinConfidence,
		TopN:          core.DefaultScanTopN,
		Matcher:       defaultMatcher,
	}
}

func (p *LabelPolicy) Resolve(rec core.Recognition, catalog []*core.CatalogItem) *LabelResult {
	res := &LabelResult{
		Outcome:    OutcomeNotRecognized,
		Text:       rec.Text,
		Confidence: rec.Confidence,
	}
	// NaN 也按未识别处理
	if !(rec.Confidence >= p.MinConfidence) {
		return res
	}

	matcher := p.Matcher
	if matcher == nil {
		matcher = defaultMatcher
	}

	if len(rec.CandidateIDs) > 0 {
		res.Exact = resolveIDs(rec.CandidateIDs, catalog)
		res.Search = matcher.MatchText(rec.Text, catalog)
	} else {
		topN := p.TopN
		if topN <= 0 {
			topN = core.DefaultScanTopN
		}
		res.Search = core.Truncate(matcher.MatchText(rec.Text, catalog), topN)
	}

	if len(res.Exact) > 0 || len(res.Search) > 0 {
		res.Outcome = OutcomeRecognized
	} else {
		res.Outcome = OutcomeNoMatch
	}
	return res
}

// Resolve 使用默认策略（阈值 0.5，无候选 ID 时取前 5）。
func Resolve(rec core.Recognition, catalog []*core.CatalogItem) *LabelResult {
	return DefaultLabelPolicy().Resolve(rec, catalog)
}

// resolveIDs 按给定顺序把 ID 解析为目录物品，忽略不存在和重复的 ID。
func resolveIDs(ids []string, catalog []*core.CatalogItem) []*core.Candidate {
	idx := core.IndexCatalog(catalog)
	seen := make(map[string]bool, len(ids))
	out := make([]*core.Candidate, 0, len(ids))
	for _, id := range ids {
		item, ok := idx[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		c := core.NewCandidate(item)
		c.PutLabel(utils.KeyMatchSource, utils.MatchLabel("recognizer"))
		out = append(out, c)
	}
	return out
}
