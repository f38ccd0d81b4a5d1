package recall

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
)

// Merge 并发执行多个召回源并按 Sources 顺序合并，例如
// [最近浏览, 收藏, 全目录]：同一物品只保留排在前面的来源，后来源的 Label 合并进去。
//
// 单个召回源失败或超时不影响其它来源；全部失败时返回第一个错误。
type Merge struct {
	Sources []Source
	Timeout time.Duration // 每个召回源的超时，0 表示不设超时
}

func (n *Merge) Name() string        { return "recall.merge" }
func (n *Merge) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Merge) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return n.Recall(ctx, rctx)
}

func (n *Merge) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Candidate, len(n.Sources))
	errs := make([]error, len(n.Sources))
	var eg errgroup.Group
	for i, src := range n.Sources {
		eg.Go(func() error {
			sctx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				sctx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}
			results[i], errs[i] = src.Recall(sctx, rctx)
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			errs[i] = fmt.Errorf("%s: %w", n.Sources[i].Name(), err)
		}
	}
	if failed == len(n.Sources) {
		return nil, errs[0]
	}
	return mergeFirst(results), nil
}

func mergeFirst(results [][]*core.Candidate) []*core.Candidate {
	seen := make(map[string]*core.Candidate)
	out := make([]*core.Candidate, 0)
	for _, items := range results {
		for _, it := range items {
			if it == nil || it.Item == nil {
				continue
			}
			if kept, ok := seen[it.ID()]; ok {
				for k, v := range it.Labels {
					kept.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID()] = it
			out = append(out, it)
		}
	}
	return out
}
