package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/tastekit/core"
)

// NodeStat 是单个 Node 一次执行的统计。
type NodeStat struct {
	Name    string
	Kind    Kind
	In      int
	Out     int
	Elapsed time.Duration
}

// Pipeline 按顺序执行 Node，上一个 Node 的输出是下一个的输入。
// 任一 Node 出错或 ctx 被取消时立即停止。
type Pipeline struct {
	Nodes []Node

	// Observer 不为空时在每个 Node 成功执行后调用
	Observer func(NodeStat)
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		if p.Observer != nil {
			p.Observer(NodeStat{
				Name:    node.Name(),
				Kind:    node.Kind(),
				In:      len(cur),
				Out:     len(next),
				Elapsed: time.Since(start),
			})
		}
		cur = next
	}
	return cur, nil
}

// WithObserver 返回共享 Nodes、使用新 Observer 的副本。
func (p *Pipeline) WithObserver(fn func(NodeStat)) *Pipeline {
	cp := *p
	cp.Observer = fn
	return &cp
}
