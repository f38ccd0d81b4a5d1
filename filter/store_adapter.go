package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rushteam/tastekit/core"
)

// StoreAdapter 把黑名单以 JSON 字符串数组存放在 core.Store 的一个 key 下。
type StoreAdapter struct {
	store core.Store
}

func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 读取黑名单，key 不存在时返回空列表。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("blacklist %s: %w", key, err)
	}
	return ids, nil
}

// Block 把物品加入黑名单，结果按 ID 排序去重后写回。
func (a *StoreAdapter) Block(ctx context.Context, key string, itemIDs ...string) error {
	return a.update(ctx, key, func(set map[string]bool) {
		for _, id := range itemIDs {
			set[id] = true
		}
	})
}

// Unblock 从黑名单移除物品。
func (a *StoreAdapter) Unblock(ctx context.Context, key string, itemIDs ...string) error {
	return a.update(ctx, key, func(set map[string]bool) {
		for _, id := range itemIDs {
			delete(set, id)
		}
	})
}

func (a *StoreAdapter) update(ctx context.Context, key string, mutate func(map[string]bool)) error {
	current, err := a.GetBlacklist(ctx, key)
	if err != nil {
		return err
	}
	set := make(map[string]bool, len(current))
	for _, id := range current {
		set[id] = true
	}
	mutate(set)

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}
