package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
- id: manchego
  name: Manchego Curado
  producer: Queso S.A.
  country: España
  milk_type: Oveja
  maturation: Curado
  flavor_profile: [Nutty, Salty]
  designation: DOP
  avg_rating: 4.5
- id: roquefort
  name: Roquefort
  country: Francia
  milk_type: Oveja
  maturation: Curado
  flavor_profile: [Salty, Sharp]
  avg_rating: 4.7
- id: tetilla
  name: Tetilla
  country: España
  milk_type: Vaca
  maturation: Tierno
  flavor_profile: [Creamy]
  avg_rating: 4.0
`

const ratingsYAML = `
- cheese_id: tetilla
  rating: 5
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute 重置全局 flag 后执行命令，返回标准输出。
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagConfig, flagCatalog, flagRatings, flagUser, flagLimit, flagVerbose = "", "", "", "", 0, false
	scanText, scanConfidence, scanIDs, scanInput = "", 0, nil, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func ids(t *testing.T, raw string) []string {
	t.Helper()
	var items []candidateView
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestRecommendCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)
	ratings := writeFile(t, "ratings.yaml", ratingsYAML)

	out, err := execute(t, "recommend", "--catalog", catalog, "--ratings", ratings, "--user", "u1", "-n", "2")
	require.NoError(t, err)

	var res struct {
		Personalized bool              `json:"personalized"`
		Explain      map[string]string `json:"explain"`
		Items        []candidateView   `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Personalized)
	assert.NotEmpty(t, res.Explain["prefer_country"])
	require.Len(t, res.Items, 2)
	assert.Equal(t, "tetilla", res.Items[0].ID)

	out, err = execute(t, "recommend", "--catalog", catalog)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Personalized)
	assert.Equal(t, "roquefort", res.Items[0].ID)
}

func TestRecommendCommand_RatingsRequireUser(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)
	ratings := writeFile(t, "ratings.yaml", ratingsYAML)
	_, err := execute(t, "recommend", "--catalog", catalog, "--ratings", ratings)
	assert.Error(t, err)
}

func TestSearchSimilarByCommands(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)

	out, err := execute(t, "search", "oveja", "--catalog", catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"manchego", "roquefort"}, ids(t, out))

	out, err = execute(t, "similar", "manchego", "--catalog", catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"roquefort", "tetilla"}, ids(t, out))

	out, err = execute(t, "by", "country", "España", "--catalog", catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"manchego", "tetilla"}, ids(t, out))

	_, err = execute(t, "by", "color", "Azul", "--catalog", catalog)
	assert.Error(t, err)
}

func TestSuggestCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)

	out, err := execute(t, "suggest", "esp", "--catalog", catalog)
	require.NoError(t, err)
	var s []string
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, []string{"España"}, s)

	out, err = execute(t, "suggest", "e", "--catalog", catalog)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Empty(t, s)
}

func TestScanCommand(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)

	out, err := execute(t, "scan", "--catalog", catalog, "--text", "Roquefort", "--confidence", "0.9")
	require.NoError(t, err)
	var res struct {
		Outcome string          `json:"outcome"`
		Search  []candidateView `json:"search"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "recognized", res.Outcome)
	require.Len(t, res.Search, 1)
	assert.Equal(t, "roquefort", res.Search[0].ID)

	rec := writeFile(t, "rec.json", `{"text": "manchego", "confidence": 0.2, "candidate_ids": ["manchego"]}`)
	out, err = execute(t, "scan", "--catalog", catalog, "-i", rec)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "not_recognized", res.Outcome)
}

func TestSQLiteBackend(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)
	db := filepath.Join(t.TempDir(), "cheese.db")
	cfg := writeFile(t, "tastekit.yaml", "store:\n  backend: sqlite\n  path: "+db+"\n  cache_ttl: 60\n")

	// 第一次导入目录，第二次直接读取已持久化的数据
	_, err := execute(t, "search", "oveja", "--config", cfg, "--catalog", catalog)
	require.NoError(t, err)
	out, err := execute(t, "search", "oveja", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"manchego", "roquefort"}, ids(t, out))
}

func TestRecommendCommand_Pipeline(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recommend.yaml"), []byte(`
pipeline:
  nodes:
    - type: recall.catalog
    - type: filter
      config:
        filters:
          - type: expr
            expr: item.country != "Francia"
    - type: rank.affinity
`), 0o600))
	cfg := filepath.Join(dir, "tastekit.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("pipeline: recommend.yaml\n"), 0o600))

	out, err := execute(t, "recommend", "--config", cfg, "--catalog", catalog, "--user", "u1")
	require.NoError(t, err)
	var res struct {
		Items []candidateView `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"manchego", "tetilla"}, idsOf(res.Items))

	require.NoError(t, os.WriteFile(cfg, []byte("pipeline: missing.yaml\n"), 0o600))
	_, err = execute(t, "recommend", "--config", cfg, "--catalog", catalog)
	assert.Error(t, err)
}

func idsOf(items []candidateView) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
