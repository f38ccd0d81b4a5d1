package filter

import (
	"context"

	"github.com/rushteam/tastekit/core"
)

// SignalFilter 根据用户信号过滤候选：已评分、已收藏或最近浏览过的物品。
// 信号取自 rctx.Signals；没有信号时不过滤。
type SignalFilter struct {
	ExcludeRated     bool
	ExcludeFavorites bool
	ExcludeViewed    bool
}

func (f *SignalFilter) Name() string {
	return "filter.signal"
}

func (f *SignalFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Candidate,
) (bool, error) {
	if item == nil || rctx == nil || rctx.Signals == nil {
		return false, nil
	}
	id := item.ID()
	s := rctx.Signals

	if f.ExcludeRated {
		if _, ok := s.Ratings[id]; ok {
			return true, nil
		}
	}
	if f.ExcludeFavorites && s.Favorites.Has(id) {
		return true, nil
	}
	if f.ExcludeViewed {
		for _, h := range s.History {
			if h.CheeseID == id {
				return true, nil
			}
		}
	}
	return false, nil
}
