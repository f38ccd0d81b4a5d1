package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, BackendMemory, s.Store.Backend)
	assert.Equal(t, core.DefaultAffinityWeights(), s.Affinity)
	assert.Equal(t, 6, s.Limits.Recommend)
	assert.Equal(t, 0.5, s.Label.MinConfidence)
}

func TestParseSettings_OverridesDefaults(t *testing.T) {
	s, err := ParseSettings([]byte(`
store:
  backend: redis
  addr: 127.0.0.1:6379
affinity:
  milk_type: 3
limits:
  recommend: 10
exclude_rated: true
`))
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, s.Store.Backend)
	assert.Equal(t, 3.0, s.Affinity.MilkType)
	// 未出现的字段保留默认值
	assert.Equal(t, 1.5, s.Affinity.Country)
	assert.Equal(t, 10, s.Limits.Recommend)
	assert.Equal(t, 4, s.Limits.Similar)
	assert.True(t, s.ExcludeRated)
}

func TestParseSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "negative weight", yaml: "affinity:\n  flavor: -1\n"},
		{name: "confidence above one", yaml: "label:\n  min_confidence: 1.5\n"},
		{name: "negative limit", yaml: "limits:\n  suggest: -2\n"},
		{name: "unknown backend", yaml: "store:\n  backend: mongo\n"},
		{name: "redis without addr", yaml: "store:\n  backend: redis\n"},
		{name: "sqlite without path", yaml: "store:\n  backend: sqlite\n"},
		{name: "malformed", yaml: "store: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	path := filepath.Join(t.TempDir(), "tastekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: sqlite\n  path: cheese.db\n"), 0o600))
	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "cheese.db", s.Store.Path)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidatePipelineConfig(t *testing.T) {
	f := pipeline.NewNodeFactory()
	f.Register("rank.trending", func(map[string]interface{}) (pipeline.Node, error) { return nil, nil })

	cfg, err := pipeline.ParseYAML([]byte("pipeline:\n  nodes:\n    - type: rank.trending\n"))
	require.NoError(t, err)
	assert.NoError(t, ValidatePipelineConfig(cfg, f))

	cfg, err = pipeline.ParseYAML([]byte("pipeline:\n  nodes:\n    - type: rank.lr\n"))
	require.NoError(t, err)
	err = ValidatePipelineConfig(cfg, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank.trending")
}
