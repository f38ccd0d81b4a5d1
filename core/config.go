package core

// AffinityWeights 是个性化推荐打分的各维度权重。
//
//	score = MilkType*milk + Country*country + Maturation*maturation
//	      + Flavor*sum(flavor) + (RatingBonus if item.avg_rating >= profile.avg_rating)
type AffinityWeights struct {
	MilkType    float64 `yaml:"milk_type" json:"milk_type" validate:"gte=0"`
	Country     float64 `yaml:"country" json:"country" validate:"gte=0"`
	Maturation  float64 `yaml:"maturation" json:"maturation" validate:"gte=0"`
	Flavor      float64 `yaml:"flavor" json:"flavor" validate:"gte=0"`
	RatingBonus float64 `yaml:"rating_bonus" json:"rating_bonus" validate:"gte=0"`
}

// SimilarityWeights 是物品相似度的各维度权重；Flavor 按共同风味个数累加。
type SimilarityWeights struct {
	MilkType   float64 `yaml:"milk_type" json:"milk_type" validate:"gte=0"`
	Country    float64 `yaml:"country" json:"country" validate:"gte=0"`
	Maturation float64 `yaml:"maturation" json:"maturation" validate:"gte=0"`
	Flavor     float64 `yaml:"flavor" json:"flavor" validate:"gte=0"`
}

// MatchWeights 是文本匹配时各字段命中的得分；Flavor 对每个命中的风味标签累加。
type MatchWeights struct {
	Name        float64 `yaml:"name" json:"name" validate:"gte=0"`
	Producer    float64 `yaml:"producer" json:"producer" validate:"gte=0"`
	Country     float64 `yaml:"country" json:"country" validate:"gte=0"`
	MilkType    float64 `yaml:"milk_type" json:"milk_type" validate:"gte=0"`
	Maturation  float64 `yaml:"maturation" json:"maturation" validate:"gte=0"`
	Designation float64 `yaml:"designation" json:"designation" validate:"gte=0"`
	Flavor      float64 `yaml:"flavor" json:"flavor" validate:"gte=0"`
}

// 默认返回数量与识别阈值。
const (
	DefaultRecommendLimit = 6
	DefaultSimilarLimit   = 4
	DefaultSuggestLimit   = 8
	DefaultScanTopN       = 5
	DefaultMinConfidence  = 0.5
	MinSuggestQueryLen    = 2
)

func DefaultAffinityWeights() AffinityWeights {
	return AffinityWeights{
		MilkType:    2.0,
		Country:     1.5,
		Maturation:  1.5,
		Flavor:      1.0,
		RatingBonus: 0.5,
	}
}

func DefaultSimilarityWeights() SimilarityWeights {
	return SimilarityWeights{
		MilkType:   3,
		Country:    2,
		Maturation: 2,
		Flavor:     1.5,
	}
}

func DefaultMatchWeights() MatchWeights {
	return MatchWeights{
		Name:        10,
		Producer:    5,
		Country:     3,
		MilkType:    2,
		Maturation:  2,
		Designation: 4,
		Flavor:      1,
	}
}
