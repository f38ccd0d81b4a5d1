package filter

import (
	"context"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/rank"
)

// DimensionFilter 只保留在某个维度上等于 Value 的候选（flavor_profile 为包含）。
// 与 rank.RecommendBy 使用同一判定。
type DimensionFilter struct {
	Dimension core.Dimension
	Value     string
}

func (f *DimensionFilter) Name() string {
	return "filter.dimension"
}

func (f *DimensionFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Candidate,
) (bool, error) {
	if item == nil || item.Item == nil {
		return true, nil
	}
	return !rank.MatchesDimension(item.Item, f.Dimension, f.Value), nil
}
