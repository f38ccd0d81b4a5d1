package rank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tastekit/core"
)

func catalog() []*core.CatalogItem {
	return []*core.CatalogItem{
		{ID: "manchego", Name: "Manchego Curado", Country: "España", MilkType: "Oveja", Maturation: "Curado", FlavorProfile: []string{"Nutty", "Salty"}, AvgRating: 4.5},
		{ID: "tetilla", Name: "Tetilla", Country: "España", MilkType: "Vaca", Maturation: "Tierno", FlavorProfile: []string{"Creamy", "Mild"}, AvgRating: 4.0},
		{ID: "roquefort", Name: "Roquefort", Country: "Francia", MilkType: "Oveja", Maturation: "Curado", FlavorProfile: []string{"Salty", "Sharp"}, AvgRating: 4.7},
		{ID: "brie", Name: "Brie de Meaux", Country: "Francia", MilkType: "Vaca", Maturation: "Semicurado", FlavorProfile: []string{"Creamy", "Earthy"}, AvgRating: 4.0},
		{ID: "idiazabal", Name: "Idiazabal", Country: "España", MilkType: "Oveja", Maturation: "Curado", FlavorProfile: []string{"Smoky", "Nutty"}, AvgRating: 4.5},
		{ID: "gouda", Name: "Gouda", Country: "Países Bajos", MilkType: "Vaca", Maturation: "Semicurado", FlavorProfile: []string{"Nutty", "Sweet"}, AvgRating: 3.9},
		{ID: "feta", Name: "Feta", Country: "Grecia", MilkType: "Oveja", Maturation: "Fresco", FlavorProfile: []string{"Salty"}, AvgRating: 4.0},
	}
}

func ids(items []*core.Candidate) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}

func sheepProfile() *core.PreferenceProfile {
	p := core.NewPreferenceProfile()
	p.MilkType["Oveja"] = 4.5
	p.Country["España"] = 4.5
	p.Maturation["Curado"] = 4.5
	p.FlavorProfile["Nutty"] = 4.5
	p.FlavorProfile["Salty"] = 4.5
	p.AvgRating = 4.5
	return p
}

func TestAffinityScorer_Score(t *testing.T) {
	s := NewAffinityScorer(core.DefaultAffinityWeights())
	p := sheepProfile()
	items := catalog()

	// manchego: 2*4.5 + 1.5*4.5 + 1.5*4.5 + (4.5+4.5) + 0.5
	assert.InDelta(t, 9+6.75+6.75+9+0.5, s.Score(p, items[0]), 1e-9)
	// tetilla：只有 España 命中，avg 4.0 < 4.5
	assert.InDelta(t, 6.75, s.Score(p, items[1]), 1e-9)
	// brie：没有任何共同点
	assert.InDelta(t, 0, s.Score(p, items[3]), 1e-9)
	// gouda：只有 Nutty 命中
	assert.InDelta(t, 4.5, s.Score(p, items[5]), 1e-9)

	assert.Zero(t, s.Score(nil, items[0]))
	assert.Zero(t, s.Score(p, nil))
}

func TestRecommend_OrderAndLimit(t *testing.T) {
	got := Recommend(sheepProfile(), catalog(), 3)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"manchego", "idiazabal", "roquefort"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Equal(t, "affinity", got[0].Labels["rank_model"].Value)
}

func TestRecommend_DefaultLimit(t *testing.T) {
	got := Recommend(sheepProfile(), catalog(), 0)
	assert.Len(t, got, core.DefaultRecommendLimit)
}

func TestRecommend_Properties(t *testing.T) {
	c := catalog()
	inCatalog := core.IndexCatalog(c)
	for n := 1; n <= len(c)+2; n++ {
		got := Recommend(sheepProfile(), c, n)
		assert.LessOrEqual(t, len(got), n)
		for i, it := range got {
			assert.Contains(t, inCatalog, it.ID())
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Score, it.Score)
			}
		}
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	first := Recommend(sheepProfile(), catalog(), 10)
	for i := 0; i < 20; i++ {
		again := Recommend(sheepProfile(), catalog(), 10)
		assert.Equal(t, ids(first), ids(again))
	}
}

func TestRecommend_EmptyProfileIsTrending(t *testing.T) {
	for _, p := range []*core.PreferenceProfile{nil, core.NewPreferenceProfile()} {
		got := Recommend(p, catalog(), 6)
		want := Trending(catalog(), 6)
		assert.Equal(t, ids(want), ids(got))
		assert.Equal(t, "trending", got[0].Labels["rank_model"].Value)
	}
}

func TestTrending_StableTieBreak(t *testing.T) {
	got := Trending(catalog(), 10)
	// 4.5 分 manchego 与 idiazabal 同分，4.0 分 tetilla、brie、feta 同分
	assert.Equal(t, []string{"roquefort", "manchego", "idiazabal", "tetilla", "brie", "feta", "gouda"}, ids(got))
	assert.InDelta(t, 4.7, got[0].Score, 1e-9)
}

func TestTrending_EmptyCatalog(t *testing.T) {
	assert.Empty(t, Trending(nil, 6))
	assert.Empty(t, Recommend(sheepProfile(), nil, 6))
}

func TestRecommendBy(t *testing.T) {
	tests := []struct {
		name  string
		got   []*core.Candidate
		want  []string
		model string
	}{
		{
			name:  "country",
			got:   RecommendByCountry("España", catalog(), 6),
			want:  []string{"manchego", "idiazabal", "tetilla"},
			model: "by_country",
		},
		{
			name:  "milk type",
			got:   RecommendByMilkType("Vaca", catalog(), 2),
			want:  []string{"tetilla", "brie"},
			model: "by_milk_type",
		},
		{
			name:  "maturation",
			got:   RecommendByMaturation("Semicurado", catalog(), 6),
			want:  []string{"brie", "gouda"},
			model: "by_maturation",
		},
		{
			name:  "flavor",
			got:   RecommendByFlavor("Salty", catalog(), 6),
			want:  []string{"roquefort", "manchego", "feta"},
			model: "by_flavor_profile",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.got))
			assert.Equal(t, tt.model, tt.got[0].Labels["rank_model"].Value)
		})
	}
}

func TestRecommendBy_NoMatchOrUnknownDimension(t *testing.T) {
	assert.Empty(t, RecommendByCountry("Japón", catalog(), 6))
	assert.Empty(t, RecommendByCountry("españa", catalog(), 6))
	assert.Empty(t, RecommendBy(core.Dimension("producer"), "x", catalog(), 6))
}

func TestAffinityNode(t *testing.T) {
	node := &AffinityNode{}
	rctx := &core.RecommendContext{Profile: sheepProfile()}

	out, err := node.Process(context.Background(), rctx, core.CandidatesOf(catalog()))
	require.NoError(t, err)
	assert.Equal(t, ids(Recommend(sheepProfile(), catalog(), 10)), ids(out))

	out, err = node.Process(context.Background(), &core.RecommendContext{}, core.CandidatesOf(catalog()))
	require.NoError(t, err)
	assert.Equal(t, ids(Trending(catalog(), 10)), ids(out))
}
