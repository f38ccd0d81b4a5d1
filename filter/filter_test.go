package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/store"
)

func candidates() []*core.Candidate {
	return core.CandidatesOf([]*core.CatalogItem{
		{ID: "manchego", Name: "Manchego", Country: "España", MilkType: "Oveja", Maturation: "Curado", FlavorProfile: []string{"Nutty"}, Designation: core.StringPtr("DOP"), AvgRating: 4.5},
		{ID: "tetilla", Name: "Tetilla", Country: "España", MilkType: "Vaca", Maturation: "Tierno", FlavorProfile: []string{"Creamy"}, AvgRating: 4.0},
		{ID: "brie", Name: "Brie", Country: "Francia", MilkType: "Vaca", Maturation: "Semicurado", FlavorProfile: []string{"Creamy", "Earthy"}, AvgRating: 4.2},
	})
}

func ids(items []*core.Candidate) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}

func run(t *testing.T, rctx *core.RecommendContext, filters ...Filter) []*core.Candidate {
	t.Helper()
	out, err := (&FilterNode{Filters: filters}).Process(context.Background(), rctx, candidates())
	require.NoError(t, err)
	return out
}

func TestBlacklistFilter(t *testing.T) {
	out := run(t, nil, NewBlacklistFilter([]string{"tetilla"}, nil, ""))
	assert.Equal(t, []string{"manchego", "brie"}, ids(out))
}

func TestBlacklistFilter_FromStore(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	require.NoError(t, ms.Set(context.Background(), "blacklist:catalog", []byte(`["brie"]`)))

	out := run(t, nil, NewBlacklistFilter(nil, NewStoreAdapter(ms), "blacklist:catalog"))
	assert.Equal(t, []string{"manchego", "tetilla"}, ids(out))

	// key 不存在时不过滤
	out = run(t, nil, NewBlacklistFilter(nil, NewStoreAdapter(ms), "blacklist:none"))
	assert.Len(t, out, 3)
}

func TestDimensionFilter(t *testing.T) {
	out := run(t, nil, &DimensionFilter{Dimension: core.DimCountry, Value: "España"})
	assert.Equal(t, []string{"manchego", "tetilla"}, ids(out))

	out = run(t, nil, &DimensionFilter{Dimension: core.DimFlavorProfile, Value: "Creamy"})
	assert.Equal(t, []string{"tetilla", "brie"}, ids(out))
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`item.milk_type == "Vaca" && item.avg_rating >= 4.1`)
	require.NoError(t, err)
	out := run(t, nil, f)
	assert.Equal(t, []string{"brie"}, ids(out))

	_, err = NewExprFilter(`item.milk_type ==`)
	assert.Error(t, err)
}

func TestExprFilter_ErrorKeepsCandidate(t *testing.T) {
	f, err := NewExprFilter(`item.designation == "DOP"`)
	require.NoError(t, err)
	out := run(t, nil, f)
	// 没有 designation 的候选求值出错，按规则保留
	assert.Equal(t, []string{"manchego", "tetilla", "brie"}, ids(out))
}

func TestSignalFilter(t *testing.T) {
	rctx := &core.RecommendContext{Signals: &core.Signals{
		Ratings:   core.Ratings{"manchego": {CheeseID: "manchego", Rating: 5}},
		Favorites: core.NewFavoriteSet("brie"),
		History:   []core.HistoryEntry{{CheeseID: "tetilla"}},
	}}

	assert.Equal(t, []string{"tetilla", "brie"}, ids(run(t, rctx, &SignalFilter{ExcludeRated: true})))
	assert.Equal(t, []string{"manchego", "tetilla"}, ids(run(t, rctx, &SignalFilter{ExcludeFavorites: true})))
	assert.Equal(t, []string{"manchego", "brie"}, ids(run(t, rctx, &SignalFilter{ExcludeViewed: true})))
	assert.Len(t, run(t, &core.RecommendContext{}, &SignalFilter{ExcludeRated: true}), 3)
}

func TestFilterNode_LabelsFiltered(t *testing.T) {
	items := candidates()
	node := &FilterNode{Filters: []Filter{NewBlacklistFilter([]string{"brie"}, nil, "")}}
	_, err := node.Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, "filter.blacklist", items[2].Labels["filtered"].Value)
	assert.Equal(t, "filter", items[2].Labels["filtered"].Source)
	assert.NotContains(t, items[0].Labels, "filtered")
}

type countingStore struct {
	core.Store
	gets int
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	return s.Store.Get(ctx, key)
}

func TestBlacklistFilter_StoreReadOncePerProcess(t *testing.T) {
	ms := store.NewMemoryStore()
	defer ms.Close()
	cs := &countingStore{Store: ms}
	adapter := NewStoreAdapter(cs)
	require.NoError(t, adapter.Block(context.Background(), "blacklist:catalog", "brie", "tetilla", "brie"))

	blocked, err := adapter.GetBlacklist(context.Background(), "blacklist:catalog")
	require.NoError(t, err)
	assert.Equal(t, []string{"brie", "tetilla"}, blocked)

	cs.gets = 0
	out := run(t, nil, NewBlacklistFilter([]string{"manchego"}, adapter, "blacklist:catalog"))
	assert.Empty(t, out)
	assert.Equal(t, 1, cs.gets)

	require.NoError(t, adapter.Unblock(context.Background(), "blacklist:catalog", "tetilla"))
	out = run(t, nil, NewBlacklistFilter(nil, adapter, "blacklist:catalog"))
	assert.Equal(t, []string{"manchego", "tetilla"}, ids(out))
}

type brokenBlacklist struct{}

func (brokenBlacklist) GetBlacklist(context.Context, string) ([]string, error) {
	return nil, errors.New("store down")
}

func TestBlacklistFilter_StoreErrorSkipsFilter(t *testing.T) {
	f := &BlacklistFilter{ItemIDs: []string{"brie"}, Store: brokenBlacklist{}, Key: "k"}
	out := run(t, nil, f, &DimensionFilter{Dimension: core.DimCountry, Value: "España"})
	assert.Equal(t, []string{"manchego", "tetilla"}, ids(out))

	_, err := f.ShouldFilter(context.Background(), nil, candidates()[0])
	assert.Error(t, err)
}
