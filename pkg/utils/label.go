// Package utils 提供候选解释用的 Label。
package utils

import "strings"

// 引擎内置写入的 Label key。
const (
	KeyRecallSource = "recall_source" // catalog / similar / user_history
	KeySimilarTo    = "similar_to"    // 相似推荐的目标物品 ID
	KeyBehaviorType = "behavior_type" // history / favorites
	KeyRankModel    = "rank_model"    // affinity / trending / by_<dimension>
	KeyMatchFields  = "match_fields"  // 命中的字段，以 | 分隔
	KeyMatchSource  = "match_source"  // recognizer
	KeyFiltered     = "filtered"
)

// Label 记录候选为什么出现在结果里，例如 rank_model=affinity、match_fields=name|producer。
// Source 是写入它的阶段：recall / rank / rerank / filter / match。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

func RecallLabel(value string) Label { return Label{Value: value, Source: "recall"} }
func RankLabel(value string) Label   { return Label{Value: value, Source: "rank"} }
func MatchLabel(value string) Label  { return Label{Value: value, Source: "match"} }

// Values 把以 | 累积的 Value 拆开。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, "|")
}

func (l Label) Has(value string) bool {
	for _, v := range l.Values() {
		if v == value {
			return true
		}
	}
	return false
}

// MergeLabel 合并同名 Label：Value 以 '|' 追加，Source 以 ',' 追加，已出现过的取值不重复追加。
// 同一个节点重复处理同一候选时 Label 保持不变。
func MergeLabel(existing, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	merged := existing
	for _, v := range incoming.Values() {
		if !merged.Has(v) {
			merged.Value += "|" + v
		}
	}
	if incoming.Source != "" && !hasPart(merged.Source, incoming.Source) {
		if merged.Source == "" {
			merged.Source = incoming.Source
		} else {
			merged.Source += "," + incoming.Source
		}
	}
	return merged
}

func hasPart(joined, part string) bool {
	for _, p := range strings.Split(joined, ",") {
		if p == part {
			return true
		}
	}
	return false
}
