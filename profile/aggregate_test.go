package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tastekit/core"
)

func testCatalog() []*core.CatalogItem {
	return []*core.CatalogItem{
		{ID: "c1", Name: "Tetilla", Country: "España", MilkType: "Vaca", Maturation: "Tierno", FlavorProfile: []string{"Cremoso", "Suave"}, AvgRating: 4.1},
		{ID: "c2", Name: "Mahón", Country: "España", MilkType: "Vaca", Maturation: "Curado", FlavorProfile: []string{"Salado"}, AvgRating: 4.3},
		{ID: "c3", Name: "Roquefort", Country: "Francia", MilkType: "Oveja", Maturation: "Curado", FlavorProfile: []string{"Salado", "Picante"}, AvgRating: 4.6},
	}
}

func TestAggregate_SharedDenominator(t *testing.T) {
	ratings := core.Ratings{
		"c1": {CheeseID: "c1", Rating: 5},
		"c2": {CheeseID: "c2", Rating: 3},
	}

	p := Aggregate(ratings, testCatalog())

	assert.InDelta(t, 4.0, p.MilkType["Vaca"], 1e-9)
	assert.InDelta(t, 4.0, p.Country["España"], 1e-9)
	assert.InDelta(t, 2.5, p.Maturation["Tierno"], 1e-9)
	assert.InDelta(t, 1.5, p.Maturation["Curado"], 1e-9)
	assert.InDelta(t, 2.5, p.FlavorProfile["Cremoso"], 1e-9)
	assert.InDelta(t, 1.5, p.FlavorProfile["Salado"], 1e-9)
	assert.InDelta(t, 4.0, p.AvgRating, 1e-9)
	assert.False(t, p.IsEmpty())
}

func TestAggregate_FlavorAccumulatesPerTag(t *testing.T) {
	ratings := core.Ratings{
		"c2": {CheeseID: "c2", Rating: 4},
		"c3": {CheeseID: "c3", Rating: 2},
	}

	p := Aggregate(ratings, testCatalog())

	// Salado 在两条评分中都出现：(4+2)/2
	assert.InDelta(t, 3.0, p.FlavorProfile["Salado"], 1e-9)
	assert.InDelta(t, 1.0, p.FlavorProfile["Picante"], 1e-9)
	assert.InDelta(t, 3.0, p.Maturation["Curado"], 1e-9)
}

func TestAggregate_SkipsUnresolved(t *testing.T) {
	ratings := core.Ratings{
		"c1":      {CheeseID: "c1", Rating: 4},
		"deleted": {CheeseID: "deleted", Rating: 1},
	}

	p := Aggregate(ratings, testCatalog())

	assert.InDelta(t, 4.0, p.AvgRating, 1e-9)
	assert.InDelta(t, 4.0, p.MilkType["Vaca"], 1e-9)
	assert.Len(t, p.MilkType, 1)
}

func TestAggregate_Empty(t *testing.T) {
	tests := []struct {
		name    string
		ratings core.Ratings
		catalog []*core.CatalogItem
	}{
		{name: "no ratings", ratings: nil, catalog: testCatalog()},
		{name: "no catalog", ratings: core.Ratings{"c1": {CheeseID: "c1", Rating: 5}}, catalog: nil},
		{name: "all unresolved", ratings: core.Ratings{"x": {CheeseID: "x", Rating: 5}}, catalog: testCatalog()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Aggregate(tt.ratings, tt.catalog)
			require.NotNil(t, p)
			assert.True(t, p.IsEmpty())
			assert.Zero(t, p.AvgRating)
			assert.Empty(t, p.MilkType)
			assert.Empty(t, p.FlavorProfile)
		})
	}
}

func TestAggregate_KeyUsedWhenCheeseIDMissing(t *testing.T) {
	p := Aggregate(core.Ratings{"c3": {Rating: 5}}, testCatalog())
	assert.InDelta(t, 5.0, p.MilkType["Oveja"], 1e-9)
}

func TestExplain(t *testing.T) {
	p := Aggregate(core.Ratings{
		"c1": {CheeseID: "c1", Rating: 5},
		"c3": {CheeseID: "c3", Rating: 2},
	}, testCatalog())

	labels := Explain(p)
	assert.Equal(t, "Vaca", labels["prefer_milk_type"].Value)
	assert.Equal(t, "España", labels["prefer_country"].Value)
	assert.Equal(t, "profile", labels["prefer_country"].Source)

	assert.Empty(t, Explain(core.NewPreferenceProfile()))
	assert.Empty(t, Explain(nil))
}
