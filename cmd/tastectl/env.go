package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/tastekit/config"
	"github.com/rushteam/tastekit/config/builders"
	"github.com/rushteam/tastekit/core"
	"github.com/rushteam/tastekit/pipeline"
	"github.com/rushteam/tastekit/service"
	"github.com/rushteam/tastekit/store"
)

// env 是一次命令执行所需的引擎与资源。
type env struct {
	engine  *service.Engine
	logger  *zap.Logger
	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
	_ = e.logger.Sync()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// setup 按配置打开存储，导入 --catalog / --ratings 文件并创建引擎。
func setup(ctx context.Context) (*env, error) {
	logger, err := newLogger(flagVerbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	settings, err := config.LoadSettings(flagConfig)
	if err != nil {
		return nil, err
	}

	e := &env{logger: logger}
	var (
		catalog interface {
			core.CatalogAccessor
			Put(ctx context.Context, items ...*core.CatalogItem) error
		}
		kv core.KeyValueStore
	)

	switch settings.Store.Backend {
	case config.BackendRedis:
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:      settings.Store.Addr,
			Password:  settings.Store.Password,
			DB:        settings.Store.DB,
			KeyPrefix: settings.Store.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, rs)
		kv = rs
		catalog = store.NewKVCatalog(rs)
	case config.BackendSQLite:
		sc, err := store.OpenSQLCatalog(ctx, settings.Store.Path)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, sc)
		catalog = sc
		// SQLite 只存目录，用户信号放在内存中
		ms := store.NewMemoryStore()
		e.closers = append(e.closers, ms)
		kv = ms
	default:
		ms := store.NewMemoryStore()
		e.closers = append(e.closers, ms)
		kv = ms
		catalog = store.NewKVCatalog(ms)
	}
	signals := store.NewKVSignals(kv)

	if flagCatalog != "" {
		var items []*core.CatalogItem
		if err := readYAML(flagCatalog, &items); err != nil {
			e.Close()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		if err := catalog.Put(ctx, items...); err != nil {
			e.Close()
			return nil, fmt.Errorf("import catalog: %w", err)
		}
		logger.Debug("catalog imported", zap.String("path", flagCatalog), zap.Int("items", len(items)))
	}

	if flagRatings != "" {
		if flagUser == "" {
			e.Close()
			return nil, fmt.Errorf("--ratings requires --user")
		}
		var ratings []core.RatingSignal
		if err := readYAML(flagRatings, &ratings); err != nil {
			e.Close()
			return nil, fmt.Errorf("load ratings: %w", err)
		}
		for _, r := range ratings {
			if err := signals.SaveRating(ctx, flagUser, r); err != nil {
				logger.Warn("skip rating", zap.String("cheese_id", r.CheeseID), zap.Error(err))
			}
		}
	}

	var accessor core.CatalogAccessor = catalog
	if ttl := settings.Store.CacheTTL; ttl > 0 {
		accessor = store.NewCatalogCache(catalog, time.Duration(ttl)*time.Second)
	}
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithSettings(settings),
	}
	if settings.Pipeline != "" {
		p, err := loadPipeline(settings.Pipeline, builders.Deps{Catalog: accessor, Signals: signals, Store: kv})
		if err != nil {
			e.Close()
			return nil, err
		}
		logger.Debug("recommend pipeline loaded", zap.String("path", settings.Pipeline), zap.Int("nodes", len(p.Nodes)))
		opts = append(opts, service.WithRecommendPipeline(p))
	}
	e.engine = service.NewEngine(accessor, signals, opts...)
	return e, nil
}

// loadPipeline 读取 pipeline 配置；相对路径相对于 --config 所在目录。
func loadPipeline(path string, deps builders.Deps) (*pipeline.Pipeline, error) {
	if !filepath.IsAbs(path) && flagConfig != "" {
		path = filepath.Join(filepath.Dir(flagConfig), path)
	}
	cfg, err := pipeline.Load(path)
	if err != nil {
		return nil, err
	}
	factory := builders.Factory(deps)
	if err := config.ValidatePipelineConfig(cfg, factory); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", path, err)
	}
	return cfg.BuildPipeline(factory)
}

// readYAML 读取 YAML 或 JSON 文件（JSON 是 YAML 的子集）。
func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
