// Package service 把目录、用户信号与各打分模块组装成对外的推荐引擎。
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tastekit/config"
	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/filter"
	"github.com/rushteam/tastekit/match"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/pkg/utils"
	"github.com/rushteam/tastekit/profile"
	"github.com/rushteam/tastekit/rank"
	"github.com/rushteam/tastekit/recall"
)

// Result 是个性化推荐的结果。
//   - Personalized：基于用户画像打分
//   - Fallback：读取用户信号失败，退化为热门推荐
//
// 两者都为 false 表示用户没有有效评分，结果同样是热门推荐。
type Result struct {
	Items        []*core.Candidate
	Personalized bool
	Fallback     bool

	// Explain 是每个维度上最偏好的取值（prefer_<dimension>），只在个性化时非空
	Explain map[string]utils.Label
}

// Engine 是推荐引擎的门面。所有方法只读目录与信号，可并发调用。
type Engine struct {
	catalog    core.CatalogAccessor
	signals    core.SignalAccessor
	recognizer core.Recognizer
	logger     *zap.Logger

	affinity     *rank.AffinityScorer
	similarity   *recall.SimilarityScorer
	matcher      *match.Matcher
	labelPolicy  *match.LabelPolicy
	limits       config.Limits
	excludeRated bool

	// recommend 不为空时，个性化推荐改由该 pipeline 执行
	recommend *pipeline.Pipeline
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithRecognizer(r core.Recognizer) Option {
	return func(e *Engine) { e.recognizer = r }
}

// WithSettings 使用配置中的权重、默认数量与识别阈值。
func WithSettings(s *config.Settings) Option {
	return func(e *Engine) {
		if s == nil {
			return
		}
		e.affinity = rank.NewAffinityScorer(s.Affinity)
		e.similarity = recall.NewSimilarityScorer(s.Similarity)
		e.matcher = match.NewMatcher(s.Match)
		e.labelPolicy = &match.LabelPolicy{
			MinConfidence: s.Label.MinConfidence,
			TopN:          s.Label.TopN,
			Matcher:       e.matcher,
		}
		e.limits = s.Limits
		e.excludeRated = s.ExcludeRated
	}
}

// WithRecommendPipeline 用自定义 pipeline 替代默认的个性化推荐流程。
// pipeline 从 recall 节点开始，rctx 中带有用户画像与信号。
func WithRecommendPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) { e.recommend = p }
}

func NewEngine(catalog core.CatalogAccessor, signals core.SignalAccessor, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		signals: signals,
		logger:  zap.NewNop(),
	}
	WithSettings(config.DefaultSettings())(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) listCatalog(ctx context.Context) ([]*core.CatalogItem, error) {
	items, err := e.catalog.ListAll(ctx)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog: list all", err)
	}
	return items, nil
}

// loadSignals 并发读取评分、收藏与浏览历史，任何一个失败都返回错误。
func (e *Engine) loadSignals(ctx context.Context, userID string) (*core.Signals, error) {
	var (
		s      core.Signals
		eg, gc = errgroup.WithContext(ctx)
	)
	eg.Go(func() error {
		r, err := e.signals.GetRatings(gc, userID)
		if err != nil {
			return fmt.Errorf("ratings: %w", err)
		}
		s.Ratings = r
		return nil
	})
	eg.Go(func() error {
		f, err := e.signals.GetFavorites(gc, userID)
		if err != nil {
			return fmt.Errorf("favorites: %w", err)
		}
		s.Favorites = f
		return nil
	})
	eg.Go(func() error {
		h, err := e.signals.GetHistory(gc, userID)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		s.History = h
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, core.WrapDomainError(core.ModuleSignal, core.ErrorCodeUnavailable, "signal: load "+userID, err)
	}
	return &s, nil
}

// Recommend 返回用户的个性化推荐（limit <= 0 时使用配置的默认数量）。
//
// 没有有效评分的用户得到热门推荐；信号读取失败时记录告警并同样退化为热门推荐，
// 而不是返回错误。只有目录读取失败才返回错误。
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) (*Result, error) {
	if limit <= 0 {
		limit = e.limits.Recommend
	}
	catalog, err := e.listCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if userID == "" || e.signals == nil {
		return &Result{Items: rank.Trending(catalog, limit)}, nil
	}

	signals, err := e.loadSignals(ctx, userID)
	if err != nil {
		e.logger.Warn("load signals failed, falling back to trending",
			zap.String("user_id", userID), zap.Error(err))
		return &Result{Items: rank.Trending(catalog, limit), Fallback: true}, nil
	}

	p := profile.Aggregate(signals.Ratings, catalog)
	rctx := &core.RecommendContext{
		UserID:  userID,
		Scene:   "recommend",
		Profile: p,
		Signals: signals,
	}
	for k, lbl := range profile.Explain(p) {
		rctx.PutLabel(k, lbl)
	}

	if e.recommend != nil {
		pl := e.recommend
		if pl.Observer == nil {
			pl = pl.WithObserver(e.logNode)
		}
		items, err := pl.Run(ctx, rctx, nil)
		if err != nil {
			return nil, fmt.Errorf("recommend pipeline: %w", err)
		}
		return &Result{Items: core.Truncate(items, limit), Personalized: !p.IsEmpty(), Explain: rctx.Labels}, nil
	}

	candidates := catalog
	if e.excludeRated {
		kept, err := (&filter.FilterNode{Filters: []filter.Filter{&filter.SignalFilter{ExcludeRated: true}}}).
			Process(ctx, rctx, core.CandidatesOf(catalog))
		if err != nil {
			return nil, err
		}
		candidates = core.Items(kept)
	}

	e.logger.Debug("recommend",
		zap.String("user_id", userID),
		zap.Int("ratings", len(signals.Ratings)),
		zap.Bool("personalized", !p.IsEmpty()))

	return &Result{
		Items:        e.affinity.Recommend(p, candidates, limit),
		Personalized: !p.IsEmpty(),
		Explain:      rctx.Labels,
	}, nil
}

func (e *Engine) logNode(s pipeline.NodeStat) {
	e.logger.Debug("pipeline node",
		zap.String("node", s.Name),
		zap.String("kind", string(s.Kind)),
		zap.Int("in", s.In),
		zap.Int("out", s.Out),
		zap.Duration("elapsed", s.Elapsed))
}

// RecommendBy 返回在某个维度上取值为 value 的物品，按 avg_rating 降序。
// 维度未知时返回空。
func (e *Engine) RecommendBy(ctx context.Context, dimension, value string, limit int) ([]*core.Candidate, error) {
	if limit <= 0 {
		limit = e.limits.Recommend
	}
	dim, ok := core.ParseDimension(dimension)
	if !ok {
		e.logger.Debug("unknown dimension", zap.String("dimension", dimension))
		return nil, nil
	}
	catalog, err := e.listCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return rank.RecommendBy(dim, value, catalog, limit), nil
}

// Similar 返回与 itemID 最相似的物品，不包含自身；itemID 不存在时返回空。
func (e *Engine) Similar(ctx context.Context, itemID string, limit int) ([]*core.Candidate, error) {
	if limit <= 0 {
		limit = e.limits.Similar
	}
	catalog, err := e.listCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return e.similarity.SimilarTo(itemID, catalog, limit), nil
}

// Search 做文本匹配，limit <= 0 时返回全部命中。
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]*core.Candidate, error) {
	catalog, err := e.listCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return core.Truncate(e.matcher.MatchText(query, catalog), limit), nil
}

func (e *Engine) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = e.limits.Suggest
	}
	catalog, err := e.listCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return match.Suggest(query, catalog, limit), nil
}

// ScanLabel 调用识别服务识别标签图片，再把识别结果落地到目录。
func (e *Engine) ScanLabel(ctx context.Context, image []byte) (*match.LabelResult, error) {
	if e.recognizer == nil {
		return nil, core.NewDomainError(core.ModuleRecognizer, core.ErrorCodeNotSupported, "recognizer: not configured")
	}
	rec, err := e.recognizer.Recognize(ctx, image)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRecognizer, core.ErrorCodeUnavailable, "recognizer: recognize", err)
	}
	return e.ResolveLabel(ctx, rec)
}

// ResolveLabel 按识别策略把识别结果落地到目录。
func (e *Engine) ResolveLabel(ctx context.Context, rec core.Recognition) (*match.LabelResult, error) {
	catalog, err := e.listCatalog(ctx)
	if err != nil {
		return nil, err
	}
	res := e.labelPolicy.Resolve(rec, catalog)
	e.logger.Debug("label resolved",
		zap.String("text", rec.Text),
		zap.Float64("confidence", rec.Confidence),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("exact", len(res.Exact)),
		zap.Int("search", len(res.Search)))
	return res, nil
}

// RecentlyViewed 返回用户最近浏览的物品（最近的在前）。
func (e *Engine) RecentlyViewed(ctx context.Context, userID string, limit int) ([]*core.Candidate, error) {
	return e.behavior(ctx, userID, recall.BehaviorHistory, limit)
}

// Favorites 返回用户收藏的物品（按 ID 排序）。
func (e *Engine) Favorites(ctx context.Context, userID string) ([]*core.Candidate, error) {
	return e.behavior(ctx, userID, recall.BehaviorFavorites, 0)
}

func (e *Engine) behavior(ctx context.Context, userID, behavior string, limit int) ([]*core.Candidate, error) {
	src := &recall.UserHistory{
		Signals:      e.signals,
		Catalog:      &recall.Catalog{Accessor: e.catalog},
		BehaviorType: behavior,
		TopK:         limit,
	}
	return src.Recall(ctx, &core.RecommendContext{UserID: userID})
}
