package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/tastekit/core"
)

// 存储后端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Settings 是引擎的运行配置（YAML）。未出现在文件中的字段保留默认值。
//
//	store:
//	  backend: redis
//	  addr: 127.0.0.1:6379
//	affinity:
//	  milk_type: 2
//	limits:
//	  recommend: 6
//	label:
//	  min_confidence: 0.5
type Settings struct {
	Store      StoreSettings          `yaml:"store" json:"store"`
	Affinity   core.AffinityWeights   `yaml:"affinity" json:"affinity"`
	Similarity core.SimilarityWeights `yaml:"similarity" json:"similarity"`
	Match      core.MatchWeights      `yaml:"match" json:"match"`
	Limits     Limits                 `yaml:"limits" json:"limits"`
	Label      LabelSettings          `yaml:"label" json:"label"`

	// ExcludeRated 为 true 时个性化推荐不返回用户已评分的物品
	ExcludeRated bool `yaml:"exclude_rated" json:"exclude_rated"`

	// Pipeline 是可选的 pipeline 配置文件路径
	Pipeline string `yaml:"pipeline" json:"pipeline"`
}

type StoreSettings struct {
	Backend  string `yaml:"backend" json:"backend" validate:"oneof=memory redis sqlite"`
	Addr     string `yaml:"addr" json:"addr" validate:"required_if=Backend redis"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db" validate:"gte=0"`
	Path     string `yaml:"path" json:"path" validate:"required_if=Backend sqlite"`

	// KeyPrefix 是 redis 后端的 key 前缀
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`

	// CacheTTL 是目录快照缓存的秒数，0 表示不缓存
	CacheTTL int `yaml:"cache_ttl" json:"cache_ttl" validate:"gte=0"`
}

// Limits 是各接口的默认返回数量。
type Limits struct {
	Recommend int `yaml:"recommend" json:"recommend" validate:"gte=0"`
	Similar   int `yaml:"similar" json:"similar" validate:"gte=0"`
	Suggest   int `yaml:"suggest" json:"suggest" validate:"gte=0"`
}

type LabelSettings struct {
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence" validate:"gte=0,lte=1"`
	TopN          int     `yaml:"top_n" json:"top_n" validate:"gte=0"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Store:      StoreSettings{Backend: BackendMemory},
		Affinity:   core.DefaultAffinityWeights(),
		Similarity: core.DefaultSimilarityWeights(),
		Match:      core.DefaultMatchWeights(),
		Limits: Limits{
			Recommend: core.DefaultRecommendLimit,
			Similar:   core.DefaultSimilarLimit,
			Suggest:   core.DefaultSuggestLimit,
		},
		Label: LabelSettings{
			MinConfidence: core.DefaultMinConfidence,
			TopN:          core.DefaultScanTopN,
		},
	}
}

var validate = validator.New()

// Validate 校验权重非负、数量非负、阈值在 [0,1] 内以及存储后端参数。
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "config: invalid settings", err)
	}
	return nil
}

// ParseSettings 在默认配置之上解析 YAML 并校验。
func ParseSettings(data []byte) (*Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "config: parse yaml", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSettings 从文件加载配置；path 为空时返回默认配置。
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(data)
}
