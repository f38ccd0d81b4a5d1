package recall

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/pkg/utils"
)

// SimilarityScorer 计算物品之间的相似度（item-to-item）：
//
//	score = w.MilkType   (milk_type 相同)
//	      + w.Country    (country 相同)
//	      + w.Maturation (maturation 相同)
//	      + w.Flavor * |共同风味|
//
// 类别完全相同优先，其次按共同风味逐个累加；分数不做归一化。
type SimilarityScorer struct {
	Weights core.SimilarityWeights
}

func NewSimilarityScorer(w core.SimilarityWeights) *SimilarityScorer {
	return &SimilarityScorer{Weights: w}
}

var defaultSimilarity = NewSimilarityScorer(core.DefaultSimilarityWeights())

// Score 计算 item 相对 target 的相似分。
func (s *SimilarityScorer) Score(target, item *core.CatalogItem) float64 {
	if target == nil || item == nil {
		return 0
	}
	w := s.Weights
	var score float64
	if item.MilkType == target.MilkType {
		score += w.MilkType
	}
	if item.Country == target.Country {
		score += w.Country
	}
	if item.Maturation == target.Maturation {
		score += w.Maturation
	}
	score += w.Flavor * float64(sharedFlavors(target.FlavorProfile, item.FlavorProfile))
	return score
}

// sharedFlavors 计算两个风味集合的交集大小（重复标签只计一次）。
func sharedFlavors(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, f := range a {
		set[f] = struct{}{}
	}
	n := 0
	for _, f := range b {
		if _, ok := set[f]; ok {
			n++
			delete(set, f)
		}
	}
	return n
}

// SimilarTo 返回与 targetID 最相似的 limit 个物品（limit <= 0 时取默认 4）。
// 目标自身不会出现在结果中；目标不在目录中时返回空。
func (s *SimilarityScorer) SimilarTo(targetID string, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	if limit <= 0 {
		limit = core.DefaultSimilarLimit
	}
	target, ok := core.IndexCatalog(catalog)[targetID]
	if !ok {
		return nil
	}

	out := make([]*core.Candidate, 0, len(catalog))
	for _, it := range catalog {
		if it == nil || it.ID == targetID {
			continue
		}
		c := core.NewCandidate(it)
		c.Score = s.Score(target, it)
		c.PutLabel(utils.KeyRecallSource, utils.RecallLabel("similar"))
		c.PutLabel(utils.KeySimilarTo, utils.RecallLabel(targetID))
		out = append(out, c)
	}
	core.SortByScore(out)
	return core.Truncate(out, limit)
}

// SimilarTo 使用默认权重计算相似物品。
func SimilarTo(targetID string, catalog []*core.CatalogItem, limit int) []*core.Candidate {
	return defaultSimilarity.SimilarTo(targetID, catalog, limit)
}

// Similar 是相似物品召回 Node：目标 ID 取自 rctx.Params["item_id"]，
// 候选目录取自 Catalog 源（为空时使用上游传入的候选）。
type Similar struct {
	Catalog *Catalog
	Scorer  *SimilarityScorer
	TopK    int
}

func (r *Similar) Name() string        { return "recall.similar" }
func (r *Similar) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Similar) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	targetID, ok := rctx.Param("item_id")
	if !ok || targetID == "" {
		return nil, nil
	}

	catalog := core.Items(items)
	if r.Catalog != nil {
		loaded, err := r.Catalog.Recall(ctx, rctx)
		if err != nil {
			return nil, err
		}
		catalog = core.Items(loaded)
	}

	scorer := r.Scorer
	if scorer == nil {
		scorer = defaultSimilarity
	}
	return scorer.SimilarTo(targetID, catalog, r.TopK), nil
}
