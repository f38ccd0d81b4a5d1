package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pkg/utils"
)

func candidate() *core.Candidate {
	c := core.NewCandidate(&core.CatalogItem{
		ID:            "manchego",
		Name:          "Manchego Curado",
		Producer:      core.StringPtr("Queso S.A."),
		Country:       "España",
		MilkType:      "Oveja",
		Maturation:    "Curado",
		FlavorProfile: []string{"Nutty", "Salty"},
		Designation:   core.StringPtr("DOP"),
		AvgRating:     4.5,
	})
	c.Score = 12.5
	c.PutLabel("rank_model", utils.Label{Value: "affinity", Source: "rank"})
	return c
}

func TestEvaluate(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "u1", Scene: "home", Params: map[string]any{"country": "España"}}
	rctx.PutLabel("prefer_milk_type", utils.Label{Value: "Oveja", Source: "profile"})
	tests := []struct {
		expr string
		want bool
	}{
		{expr: `item.country == "España" && item.avg_rating >= 4.0`, want: true},
		{expr: `item.avg_rating > 4.6`, want: false},
		{expr: `"Nutty" in item.flavor_profile`, want: true},
		{expr: `"Smoky" in item.flavor_profile`, want: false},
		{expr: `has(item.designation) && item.designation == "DOP"`, want: true},
		{expr: `has(item.region)`, want: false},
		{expr: `label.rank_model == "affinity" && item.score > 10.0`, want: true},
		{expr: `rctx.scene == "home" && item.country == rctx.params.country`, want: true},
		{expr: `item.name.contains("Curado")`, want: true},
		{expr: `item.milk_type == rctx.labels.prefer_milk_type`, want: true},
		{expr: `has(rctx.labels.prefer_country)`, want: false},
		{expr: ``, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr, candidate(), rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_NilContext(t *testing.T) {
	got, err := Evaluate(`size(rctx.labels) == 0 && size(rctx.params) == 0`, candidate(), nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`item.country ==`)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestEval_NonBoolean(t *testing.T) {
	p, err := Compile(`item.avg_rating`)
	require.NoError(t, err)
	_, err = p.Eval(candidate(), nil)
	assert.Error(t, err)
}

func TestEval_MissingOptionalKey(t *testing.T) {
	p, err := Compile(`item.region == "La Mancha"`)
	require.NoError(t, err)
	_, err = p.Eval(candidate(), nil)
	assert.Error(t, err)
	assert.Equal(t, `item.region == "La Mancha"`, p.String())
}
