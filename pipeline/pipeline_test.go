package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tastekit/core"
)

type funcNode struct {
	name string
	fn   func([]*core.Candidate) ([]*core.Candidate, error)
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindRank }
func (n *funcNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Candidate) ([]*core.Candidate, error) {
	return n.fn(items)
}

func TestPipeline_Run(t *testing.T) {
	appendNode := func(id string) Node {
		return &funcNode{name: "append." + id, fn: func(items []*core.Candidate) ([]*core.Candidate, error) {
			return append(items, core.NewCandidate(&core.CatalogItem{ID: id})), nil
		}}
	}
	p := &Pipeline{Nodes: []Node{appendNode("a"), appendNode("b")}}

	out, err := p.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID())
	assert.Equal(t, "b", out[1].ID())
}

func TestPipeline_Observer(t *testing.T) {
	drop := &funcNode{name: "filter.drop_first", fn: func(items []*core.Candidate) ([]*core.Candidate, error) {
		return items[1:], nil
	}}
	base := &Pipeline{Nodes: []Node{drop}}

	var stats []NodeStat
	p := base.WithObserver(func(s NodeStat) { stats = append(stats, s) })
	assert.Nil(t, base.Observer)

	in := core.CandidatesOf([]*core.CatalogItem{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	out, err := p.Run(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	require.Len(t, stats, 1)
	assert.Equal(t, "filter.drop_first", stats[0].Name)
	assert.Equal(t, KindRank, stats[0].Kind)
	assert.Equal(t, 3, stats[0].In)
	assert.Equal(t, 2, stats[0].Out)
}

func TestPipeline_RunWrapsNodeError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{&funcNode{name: "rank.broken", fn: func([]*core.Candidate) ([]*core.Candidate, error) {
		return nil, boom
	}}}}

	_, err := p.Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "rank.broken")
}

func TestPipeline_RunStopsOnCancel(t *testing.T) {
	called := false
	p := &Pipeline{Nodes: []Node{&funcNode{name: "n", fn: func(items []*core.Candidate) ([]*core.Candidate, error) {
		called = true
		return items, nil
	}}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestConfig_BuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipeline:
  name: demo
  nodes:
    - type: noop
      config:
        n: 3
`))
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Pipeline.Name)

	f := NewNodeFactory()
	var got map[string]interface{}
	f.Register("noop", func(c map[string]interface{}) (Node, error) {
		got = c
		return &funcNode{name: "noop", fn: func(items []*core.Candidate) ([]*core.Candidate, error) { return items, nil }}, nil
	})
	assert.True(t, f.Has("noop"))
	assert.Equal(t, []string{"noop"}, f.Types())

	p, err := cfg.BuildPipeline(f)
	require.NoError(t, err)
	assert.Len(t, p.Nodes, 1)
	assert.Equal(t, 3, got["n"])

	bad, err := ParseYAML([]byte("pipeline:\n  nodes:\n    - type: missing\n"))
	require.NoError(t, err)
	_, err = bad.BuildPipeline(f)
	assert.Error(t, err)

	untyped, err := ParseYAML([]byte("pipeline:\n  nodes:\n    - config: {n: 1}\n"))
	require.NoError(t, err)
	_, err = untyped.BuildPipeline(f)
	assert.ErrorContains(t, err, "missing type")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "p.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"pipeline":{"name":"j","nodes":[{"type":"rerank.topn","config":{"n":2}}]}}`), 0o644))
	yamlPath := filepath.Join(dir, "p.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("pipeline:\n  name: y\n  nodes:\n    - type: rank.trending\n"), 0o644))

	cfg, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "j", cfg.Pipeline.Name)
	assert.Equal(t, 2.0, cfg.Pipeline.Nodes[0].Config["n"])

	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "y", cfg.Pipeline.Name)
	assert.Equal(t, "rank.trending", cfg.Pipeline.Nodes[0].Type)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	_, err = ParseJSON([]byte("{"))
	assert.Error(t, err)
}
