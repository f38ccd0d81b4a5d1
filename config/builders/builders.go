// Package builders 注册内置 Node 的配置构建器。
//
// 无外部依赖的 Node 在 init 中注册到 config 注册表；需要目录、用户信号或存储的
// Node 通过 Factory(deps) 注入后构建。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/tastekit/config"
	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/filter"
	"github.com/rushteam/tastekit/match"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/pkg/conv"
	"github.com/rushteam/tastekit/rank"
	"github.com/rushteam/tastekit/recall"
	"github.com/rushteam/tastekit/rerank"
)

func init() {
	config.Register("rank.affinity", BuildAffinityNode)
	config.Register("rank.trending", BuildTrendingNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("match.text", BuildTextMatchNode)
	config.Register("filter", FilterBuilder(nil))
}

// Deps 是依赖外部存储的 Node 所需的依赖。
type Deps struct {
	Catalog core.CatalogAccessor
	Signals core.SignalAccessor
	Store   core.Store // 黑名单等按 key 读取的数据，可选
}

// Factory 返回注册表中的全部 Node，外加基于 deps 的 recall.* 与带存储的 filter。
func Factory(deps Deps) *pipeline.NodeFactory {
	f := config.DefaultFactory()
	f.Register("recall.catalog", CatalogBuilder(deps.Catalog))
	f.Register("recall.similar", SimilarBuilder(deps.Catalog))
	f.Register("recall.user_history", UserHistoryBuilder(deps.Signals, deps.Catalog))
	f.Register("recall.merge", MergeBuilder(deps.Signals, deps.Catalog))
	f.Register("filter", FilterBuilder(deps.Store))
	return f
}

func CatalogBuilder(acc core.CatalogAccessor) pipeline.NodeBuilder {
	return func(map[string]interface{}) (pipeline.Node, error) {
		if acc == nil {
			return nil, fmt.Errorf("recall.catalog: catalog accessor is required")
		}
		return &recall.Catalog{Accessor: acc}, nil
	}
}

func SimilarBuilder(acc core.CatalogAccessor) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		node := &recall.Similar{
			Scorer: recall.NewSimilarityScorer(similarityWeights(conv.Params(cfg).Sub("weights"))),
			TopK:   conv.Params(cfg).Int("top_k", core.DefaultSimilarLimit),
		}
		// 没有 accessor 时使用上游候选作为目录
		if acc != nil {
			node.Catalog = &recall.Catalog{Accessor: acc}
		}
		return node, nil
	}
}

func UserHistoryBuilder(signals core.SignalAccessor, acc core.CatalogAccessor) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		if signals == nil || acc == nil {
			return nil, fmt.Errorf("recall.user_history: signal and catalog accessors are required")
		}
		p := conv.Params(cfg)
		behavior := p.String("behavior", recall.BehaviorHistory)
		if behavior != recall.BehaviorHistory && behavior != recall.BehaviorFavorites {
			return nil, fmt.Errorf("recall.user_history: unknown behavior %q", behavior)
		}
		return &recall.UserHistory{
			Signals:      signals,
			Catalog:      &recall.Catalog{Accessor: acc},
			BehaviorType: behavior,
			TopK:         p.Int("top_k", 0),
		}, nil
	}
}

// MergeBuilder 构建多路召回：
//
//	type: recall.merge
//	config:
//	  sources: [history, favorites, catalog]
//	  timeout_ms: 200
func MergeBuilder(signals core.SignalAccessor, acc core.CatalogAccessor) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		if acc == nil {
			return nil, fmt.Errorf("recall.merge: catalog accessor is required")
		}
		p := conv.Params(cfg)
		names := p.Strings("sources")
		if len(names) == 0 {
			return nil, fmt.Errorf("recall.merge: sources is required")
		}
		catalog := &recall.Catalog{Accessor: acc}
		node := &recall.Merge{Timeout: time.Duration(p.Int("timeout_ms", 0)) * time.Millisecond}
		for _, name := range names {
			switch name {
			case "catalog":
				node.Sources = append(node.Sources, catalog)
			case recall.BehaviorHistory, recall.BehaviorFavorites:
				if signals == nil {
					return nil, fmt.Errorf("recall.merge: source %s needs a signal accessor", name)
				}
				node.Sources = append(node.Sources, &recall.UserHistory{Signals: signals, Catalog: catalog, BehaviorType: name})
			default:
				return nil, fmt.Errorf("recall.merge: unknown source %q", name)
			}
		}
		return node, nil
	}
}

func BuildAffinityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	w := conv.Params(cfg).Sub("weights")
	def := core.DefaultAffinityWeights()
	weights := core.AffinityWeights{
		MilkType:    w.Float("milk_type", def.MilkType),
		Country:     w.Float("country", def.Country),
		Maturation:  w.Float("maturation", def.Maturation),
		Flavor:      w.Float("flavor", def.Flavor),
		RatingBonus: w.Float("rating_bonus", def.RatingBonus),
	}
	if err := nonNegative(w.Floats()); err != nil {
		return nil, fmt.Errorf("rank.affinity: %w", err)
	}
	return &rank.AffinityNode{Scorer: rank.NewAffinityScorer(weights)}, nil
}

// BuildTextMatchNode 构建文本匹配节点，query 为空时使用请求参数中的 query。
func BuildTextMatchNode(cfg map[string]interface{}) (pipeline.Node, error) {
	p := conv.Params(cfg)
	w := p.Sub("weights")
	def := core.DefaultMatchWeights()
	weights := core.MatchWeights{
		Name:        w.Float("name", def.Name),
		Producer:    w.Float("producer", def.Producer),
		Country:     w.Float("country", def.Country),
		MilkType:    w.Float("milk_type", def.MilkType),
		Maturation:  w.Float("maturation", def.Maturation),
		Designation: w.Float("designation", def.Designation),
		Flavor:      w.Float("flavor", def.Flavor),
	}
	if err := nonNegative(w.Floats()); err != nil {
		return nil, fmt.Errorf("match.text: %w", err)
	}
	return &match.TextNode{Matcher: match.NewMatcher(weights), Query: p.String("query", "")}, nil
}

func BuildTrendingNode(map[string]interface{}) (pipeline.Node, error) {
	return &rank.TrendingNode{}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	p := conv.Params(cfg)
	node := &rerank.TopNNode{N: p.Int("n", core.DefaultRecommendLimit)}
	if _, ok := p["min_score"]; ok {
		floor := p.Float("min_score", 0)
		node.MinScore = &floor
	}
	return node, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	p := conv.Params(cfg)
	return &rerank.Diversity{
		Field:       p.String("field", "producer"),
		MaxPerValue: p.Int("max_per_value", 1),
	}, nil
}

// FilterBuilder 构建 filter Node。s 不为空时 blacklist 过滤器可以通过 key 从存储读取黑名单。
//
//	filters:
//	  - type: blacklist
//	    item_ids: [brie]
//	    key: blacklist:catalog
//	  - type: signal
//	    exclude_rated: true
//	  - type: dimension
//	    dimension: country
//	    value: España
//	  - type: expr
//	    expr: item.avg_rating >= 4.0
func FilterBuilder(s core.Store) pipeline.NodeBuilder {
	return func(cfg map[string]interface{}) (pipeline.Node, error) {
		specs, ok := conv.Params(cfg).List("filters")
		if !ok {
			return nil, fmt.Errorf("filters not found or invalid")
		}
		filters := make([]filter.Filter, 0, len(specs))
		for _, fp := range specs {
			filterType := fp.String("type", "")
			switch filterType {
			case "blacklist":
				ids := fp.Strings("item_ids")
				key := fp.String("key", "")
				var adapter *filter.StoreAdapter
				if s != nil && key != "" {
					adapter = filter.NewStoreAdapter(s)
				}
				filters = append(filters, filter.NewBlacklistFilter(ids, adapter, key))
			case "signal":
				filters = append(filters, &filter.SignalFilter{
					ExcludeRated:     fp.Bool("exclude_rated", false),
					ExcludeFavorites: fp.Bool("exclude_favorites", false),
					ExcludeViewed:    fp.Bool("exclude_viewed", false),
				})
			case "dimension":
				dim, ok := core.ParseDimension(fp.String("dimension", ""))
				if !ok {
					return nil, fmt.Errorf("unknown dimension: %v", fp["dimension"])
				}
				filters = append(filters, &filter.DimensionFilter{
					Dimension: dim,
					Value:     fp.String("value", ""),
				})
			case "expr":
				f, err := filter.NewExprFilter(fp.String("expr", ""))
				if err != nil {
					return nil, err
				}
				filters = append(filters, f)
			default:
				return nil, fmt.Errorf("unknown filter type: %s", filterType)
			}
		}
		return &filter.FilterNode{Filters: filters}, nil
	}
}

func similarityWeights(w conv.Params) core.SimilarityWeights {
	def := core.DefaultSimilarityWeights()
	return core.SimilarityWeights{
		MilkType:   w.Float("milk_type", def.MilkType),
		Country:    w.Float("country", def.Country),
		Maturation: w.Float("maturation", def.Maturation),
		Flavor:     w.Float("flavor", def.Flavor),
	}
}

func nonNegative(w map[string]float64) error {
	for k, v := range w {
		if v < 0 {
			return fmt.Errorf("weight %s must be >= 0, got %v", k, v)
		}
	}
	return nil
}
