// Package config 管理引擎运行配置（Settings）以及 pipeline Node 类型的注册表。
//
// 无外部依赖的内置 Node 由 config/builders 在 init 中注册，使用前需要
// import _ "github.com/rushteam/tastekit/config/builders"；依赖目录或信号存储的
// Node 由 builders.Factory 按实例注入。
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/tastekit/pipeline"
)

var registry = struct {
	sync.RWMutex
	builders map[string]pipeline.NodeBuilder
}{builders: make(map[string]pipeline.NodeBuilder)}

// Register 登记一种 Node 类型，通常在 init 中调用；空类型名或空 builder 被忽略。
func Register(typeName string, builder pipeline.NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.builders[typeName] = builder
}

// SupportedTypes 返回已登记的类型，按字典序。
func SupportedTypes() []string {
	registry.RLock()
	defer registry.RUnlock()
	types := make([]string, 0, len(registry.builders))
	for t := range registry.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回包含全部已登记类型的新 NodeFactory，调用方可以继续 Register 覆盖。
func DefaultFactory() *pipeline.NodeFactory {
	registry.RLock()
	defer registry.RUnlock()
	f := pipeline.NewNodeFactory()
	for t, b := range registry.builders {
		f.Register(t, b)
	}
	return f
}

// ValidatePipelineConfig 在构建之前检查每个 Node 的类型都能由 factory 构建，
// factory 为 nil 时使用 DefaultFactory。
func ValidatePipelineConfig(cfg *pipeline.Config, factory *pipeline.NodeFactory) error {
	if cfg == nil {
		return nil
	}
	if factory == nil {
		factory = DefaultFactory()
	}
	for i, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			return fmt.Errorf("node #%d: missing type", i)
		}
		if !factory.Has(nc.Type) {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, factory.Types())
		}
	}
	return nil
}
