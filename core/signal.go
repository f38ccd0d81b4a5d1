package core

import (
	"context"
	"sort"
	"time"
)

// DefaultHistoryCap 是浏览历史的默认上限（由存储层截断）。
const DefaultHistoryCap = 50

// RatingSignal 是用户对单个物品的一次评分，Rating 取值 1-5。
type RatingSignal struct {
	CheeseID string    `json:"cheese_id" yaml:"cheese_id"`
	Rating   int       `json:"rating" yaml:"rating"`
	Note     *string   `json:"note,omitempty" yaml:"note,omitempty"`
	Date     time.Time `json:"date" yaml:"date"`
}

// Ratings 按物品 ID 索引的评分，同一物品只保留最后一次评分。
type Ratings map[string]RatingSignal

// SortedIDs 返回按字典序排列的物品 ID，保证遍历顺序稳定。
func (r Ratings) SortedIDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FavoriteSet 是用户收藏的物品集合，只关心成员关系。
type FavoriteSet map[string]struct{}

func NewFavoriteSet(ids ...string) FavoriteSet {
	s := make(FavoriteSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s FavoriteSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s FavoriteSet) Add(id string) {
	s[id] = struct{}{}
}

func (s FavoriteSet) Remove(id string) {
	delete(s, id)
}

// IDs 返回排序后的成员列表。
func (s FavoriteSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HistoryEntry 是一次浏览记录；历史按时间倒序排列（最近的在前）。
type HistoryEntry struct {
	CheeseID  string    `json:"cheese_id" yaml:"cheese_id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Signals 是一次请求中读取到的用户信号快照。
type Signals struct {
	Ratings   Ratings
	Favorites FavoriteSet
	History   []HistoryEntry
}

// SignalAccessor 是用户信号存储的只读视图。
// 空结果（没有评分/收藏/历史）不是错误。
type SignalAccessor interface {
	GetRatings(ctx context.Context, userID string) (Ratings, error)
	GetFavorites(ctx context.Context, userID string) (FavoriteSet, error)
	GetHistory(ctx context.Context, userID string) ([]HistoryEntry, error)
}
