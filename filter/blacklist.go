package filter

import (
	"context"

	"github.com/rushteam/tastekit/core"
)

// BlacklistFilter 剔除黑名单中的物品（下架、运营屏蔽等）。
// 黑名单来自 ItemIDs，以及 Store 中 Key 对应的列表（两者取并集）。
type BlacklistFilter struct {
	ItemIDs []string
	Store   BlacklistStore
	Key     string
}

// BlacklistStore 按 key 读取黑名单。
type BlacklistStore interface {
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

func NewBlacklistFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	f := &BlacklistFilter{ItemIDs: itemIDs, Key: key}
	if storeAdapter != nil {
		f.Store = storeAdapter
	}
	return f
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Bind 读取一次存储中的黑名单，返回本次请求使用的集合过滤器。
// 存储读取失败时返回错误，FilterNode 本次跳过整个黑名单过滤器。
func (f *BlacklistFilter) Bind(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	set := newIDSet(f.Name(), f.ItemIDs)
	if f.Store != nil && f.Key != "" {
		ids, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			set.ids[id] = struct{}{}
		}
	}
	return set, nil
}

// ShouldFilter 不经过 FilterNode 直接调用时，每次都会重新读取存储。
func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Candidate,
) (bool, error) {
	bound, err := f.Bind(ctx, rctx)
	if err != nil {
		return false, err
	}
	return bound.ShouldFilter(ctx, rctx, item)
}

type idSet struct {
	name string
	ids  map[string]struct{}
}

func newIDSet(name string, ids []string) *idSet {
	s := &idSet{name: name, ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *idSet) Name() string { return s.name }

func (s *idSet) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Candidate) (bool, error) {
	if item == nil || item.Item == nil {
		return true, nil
	}
	_, blocked := s.ids[item.ID()]
	return blocked, nil
}
