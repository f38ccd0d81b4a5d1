// Package tastekit 是一个确定性的目录推荐与模糊匹配引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传，解释每个候选为何出现、为何排在此处
// - 纯函数打分: 画像聚合、亲和度、相似度与文本匹配都只依赖输入，不读写存储
package tastekit

import "github.com/rushteam/tastekit/pipeline"

// 轻量 facade：便于直接 import "tastekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
	KindMatch  = pipeline.KindMatch
)
