package core

import "github.com/rushteam/tastekit/pkg/utils"

// RecommendContext 承载用户/场景/请求信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Scene  string // home / detail / search / scan ...

	// Profile 是本次请求聚合出的偏好画像；为空时排序节点退化为热门排序。
	Profile *PreferenceProfile

	// Signals 是本次请求读取到的用户信号快照（可选）。
	Signals *Signals

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级参数：item_id（相似推荐目标）、query、dimension/value 等
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// Param 读取字符串参数。
func (rctx *RecommendContext) Param(key string) (string, bool) {
	if rctx == nil || rctx.Params == nil {
		return "", false
	}
	s, ok := rctx.Params[key].(string)
	return s, ok
}
