package recall

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/pkg/utils"
)

// Catalog 是全目录召回源：把 CatalogAccessor 返回的全部物品按目录顺序作为候选。
// - 如果 Accessor 为空，使用内存中的 Items 作为快照
// Catalog 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Catalog struct {
	Accessor core.CatalogAccessor
	Items    []*core.CatalogItem
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Catalog) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Candidate, error) {
	items := r.Items
	if r.Accessor != nil {
		all, err := r.Accessor.ListAll(ctx)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog: list all", err)
		}
		items = all
	}

	out := core.CandidatesOf(items)
	for _, it := range out {
		it.PutLabel(utils.KeyRecallSource, utils.RecallLabel("catalog"))
	}
	return out, nil
}
