package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rushteam/tastekit/core"
)

// KVSignals 把用户信号存放在 core.KeyValueStore 中：
//   - user:<uid>:ratings    Hash，field 为物品 ID，value 为 JSON 的 RatingSignal
//   - user:<uid>:favorites  JSON 数组
//   - user:<uid>:history    有序集合，member 为物品 ID，score 为浏览时间（毫秒）
type KVSignals struct {
	store      core.KeyValueStore
	historyCap int
}

// NewKVSignals 创建信号存储，浏览历史上限为 core.DefaultHistoryCap。
func NewKVSignals(s core.KeyValueStore) *KVSignals {
	return &KVSignals{store: s, historyCap: core.DefaultHistoryCap}
}

var _ core.SignalAccessor = (*KVSignals)(nil)

func ratingsKey(uid string) string   { return "user:" + uid + ":ratings" }
func favoritesKey(uid string) string { return "user:" + uid + ":favorites" }
func historyKey(uid string) string   { return "user:" + uid + ":history" }

func (s *KVSignals) GetRatings(ctx context.Context, userID string) (core.Ratings, error) {
	raw, err := s.store.HGetAll(ctx, ratingsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("get ratings %s: %w", userID, err)
	}
	out := make(core.Ratings, len(raw))
	for id, data := range raw {
		var r core.RatingSignal
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode rating %s/%s: %w", userID, id, err)
		}
		if r.CheeseID == "" {
			r.CheeseID = id
		}
		out[id] = r
	}
	return out, nil
}

// SaveRating 写入评分，同一物品覆盖旧值。Rating 必须在 1-5 之间。
func (s *KVSignals) SaveRating(ctx context.Context, userID string, r core.RatingSignal) error {
	if r.CheeseID == "" || r.Rating < 1 || r.Rating > 5 {
		return core.NewDomainError(core.ModuleSignal, core.ErrorCodeInvalidInput,
			fmt.Sprintf("signal: invalid rating %q=%d", r.CheeseID, r.Rating))
	}
	if r.Date.IsZero() {
		r.Date = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.store.HSet(ctx, ratingsKey(userID), r.CheeseID, data)
}

// DeleteRating 删除一条评分。
func (s *KVSignals) DeleteRating(ctx context.Context, userID, cheeseID string) error {
	return s.store.HDel(ctx, ratingsKey(userID), cheeseID)
}

func (s *KVSignals) GetFavorites(ctx context.Context, userID string) (core.FavoriteSet, error) {
	data, err := s.store.Get(ctx, favoritesKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.NewFavoriteSet(), nil
		}
		return nil, fmt.Errorf("get favorites %s: %w", userID, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode favorites %s: %w", userID, err)
	}
	return core.NewFavoriteSet(ids...), nil
}

func (s *KVSignals) AddFavorite(ctx context.Context, userID, cheeseID string) error {
	set, err := s.GetFavorites(ctx, userID)
	if err != nil {
		return err
	}
	if set.Has(cheeseID) {
		return nil
	}
	set.Add(cheeseID)
	return s.putFavorites(ctx, userID, set)
}

func (s *KVSignals) RemoveFavorite(ctx context.Context, userID, cheeseID string) error {
	set, err := s.GetFavorites(ctx, userID)
	if err != nil {
		return err
	}
	if !set.Has(cheeseID) {
		return nil
	}
	set.Remove(cheeseID)
	return s.putFavorites(ctx, userID, set)
}

func (s *KVSignals) putFavorites(ctx context.Context, userID string, set core.FavoriteSet) error {
	data, err := json.Marshal(set.IDs())
	if err != nil {
		return err
	}
	return s.store.Set(ctx, favoritesKey(userID), data)
}

// GetHistory 返回浏览历史，最近的在前。
func (s *KVSignals) GetHistory(ctx context.Context, userID string) ([]core.HistoryEntry, error) {
	key := historyKey(userID)
	ids, err := s.store.ZRange(ctx, key, 0, int64(s.historyCap)-1)
	if err != nil {
		return nil, fmt.Errorf("get history %s: %w", userID, err)
	}
	out := make([]core.HistoryEntry, 0, len(ids))
	for _, id := range ids {
		ms, err := s.store.ZScore(ctx, key, id)
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("get history %s/%s: %w", userID, id, err)
		}
		out = append(out, core.HistoryEntry{CheeseID: id, Timestamp: time.UnixMilli(int64(ms))})
	}
	return out, nil
}

// PushHistory 记录一次浏览。重复浏览的物品移到最前，超过上限的最旧记录被删除。
func (s *KVSignals) PushHistory(ctx context.Context, userID, cheeseID string, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	key := historyKey(userID)
	if err := s.store.ZAdd(ctx, key, float64(at.UnixMilli()), cheeseID); err != nil {
		return err
	}
	overflow, err := s.store.ZRange(ctx, key, int64(s.historyCap), -1)
	if err != nil {
		return err
	}
	if len(overflow) == 0 {
		return nil
	}
	return s.store.ZRem(ctx, key, overflow...)
}
