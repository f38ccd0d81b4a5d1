package recall

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/pkg/utils"
)

// 用户行为类型
const (
	BehaviorHistory   = "history"   // 最近浏览（按时间倒序）
	BehaviorFavorites = "favorites" // 收藏（按 ID 排序）
)

// UserHistory 是基于用户行为的召回源：把浏览历史或收藏解析为目录物品。
// 它只用于"最近看过 / 我的收藏"之类的展示，不参与亲和度打分。
// 目录中已不存在的物品会被跳过，重复的 ID 只保留第一次出现。
type UserHistory struct {
	Signals core.SignalAccessor
	Catalog *Catalog

	// BehaviorType 行为类型：history / favorites，默认 history
	BehaviorType string

	// TopK 返回 TopK 个物品，0 表示不限制
	TopK int
}

func (r *UserHistory) Name() string {
	return "recall.user_history"
}

func (r *UserHistory) Kind() pipeline.Kind {
	return pipeline.KindRecall
}

func (r *UserHistory) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

func (r *UserHistory) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Signals == nil || r.Catalog == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	behaviorType := r.BehaviorType
	if behaviorType == "" {
		behaviorType = BehaviorHistory
	}

	var itemIDs []string
	switch behaviorType {
	case BehaviorFavorites:
		favs, err := r.Signals.GetFavorites(ctx, rctx.UserID)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleSignal, core.ErrorCodeUnavailable, "signal: get favorites", err)
		}
		itemIDs = favs.IDs()
	default:
		history, err := r.Signals.GetHistory(ctx, rctx.UserID)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleSignal, core.ErrorCodeUnavailable, "signal: get history", err)
		}
		itemIDs = make([]string, 0, len(history))
		for _, h := range history {
			itemIDs = append(itemIDs, h.CheeseID)
		}
	}
	if len(itemIDs) == 0 {
		return nil, nil
	}

	all, err := r.Catalog.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	idx := core.IndexCatalog(core.Items(all))

	seen := make(map[string]bool, len(itemIDs))
	out := make([]*core.Candidate, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := idx[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		it := core.NewCandidate(item)
		it.PutLabel(utils.KeyRecallSource, utils.RecallLabel("user_history"))
		it.PutLabel(utils.KeyBehaviorType, utils.RecallLabel(behaviorType))
		out = append(out, it)
	}

	return core.Truncate(out, r.TopK), nil
}
