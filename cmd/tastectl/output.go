package main

import (
	"encoding/json"
	"io"

	"github.com/rushteam/tastekit/core"
)

// candidateView 是命令行输出中单个候选的 JSON 形式。
type candidateView struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Score   float64           `json:"score"`
	Country string            `json:"country"`
	Milk    string            `json:"milk_type"`
	Labels  map[string]string `json:"labels,omitempty"`
}

func viewOf(items []*core.Candidate) []candidateView {
	out := make([]candidateView, 0, len(items))
	for _, it := range items {
		if it == nil || it.Item == nil {
			continue
		}
		v := candidateView{
			ID:      it.Item.ID,
			Name:    it.Item.Name,
			Score:   it.Score,
			Country: it.Item.Country,
			Milk:    it.Item.MilkType,
		}
		if len(it.Labels) > 0 {
			v.Labels = make(map[string]string, len(it.Labels))
			for k, l := range it.Labels {
				v.Labels[k] = l.Value
			}
		}
		out = append(out, v)
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
