package core

import "sort"

// Dimension 是偏好画像中的一个类别维度。
type Dimension string

const (
	DimMilkType      Dimension = "milk_type"
	DimCountry       Dimension = "country"
	DimMaturation    Dimension = "maturation"
	DimFlavorProfile Dimension = "flavor_profile"
)

// Dimensions 是画像覆盖的全部维度，顺序固定。
var Dimensions = []Dimension{DimMilkType, DimCountry, DimMaturation, DimFlavorProfile}

// ParseDimension 解析维度名称。
func ParseDimension(s string) (Dimension, bool) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// PreferenceProfile 是用户偏好画像：每个维度上 "取值 -> 归一化亲和度"，以及评分均值。
//
// 画像由评分实时聚合得到（profile.Aggregate），不持久化。
// 没有任何有效评分时为空画像，调用方据此退化到热门推荐。
type PreferenceProfile struct {
	MilkType      map[string]float64 `json:"milk_type"`
	Country       map[string]float64 `json:"country"`
	Maturation    map[string]float64 `json:"maturation"`
	FlavorProfile map[string]float64 `json:"flavor_profile"`
	AvgRating     float64            `json:"avg_rating"`
}

// NewPreferenceProfile 创建一个空画像。
func NewPreferenceProfile() *PreferenceProfile {
	return &PreferenceProfile{
		MilkType:      make(map[string]float64),
		Country:       make(map[string]float64),
		Maturation:    make(map[string]float64),
		FlavorProfile: make(map[string]float64),
	}
}

// IsEmpty 判断是否为空画像（nil 也视为空）。
func (p *PreferenceProfile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return len(p.MilkType) == 0 &&
		len(p.Country) == 0 &&
		len(p.Maturation) == 0 &&
		len(p.FlavorProfile) == 0 &&
		p.AvgRating == 0
}

// Bucket 返回某个维度的权重表。
func (p *PreferenceProfile) Bucket(dim Dimension) map[string]float64 {
	if p == nil {
		return nil
	}
	switch dim {
	case DimMilkType:
		return p.MilkType
	case DimCountry:
		return p.Country
	case DimMaturation:
		return p.Maturation
	case DimFlavorProfile:
		return p.FlavorProfile
	default:
		return nil
	}
}

// Weight 获取某个维度某个取值的亲和度，不存在时为 0。
func (p *PreferenceProfile) Weight(dim Dimension, value string) float64 {
	return p.Bucket(dim)[value]
}

// Top 返回某个维度上亲和度最高的取值；并列时取字典序较小者。
func (p *PreferenceProfile) Top(dim Dimension) (string, float64, bool) {
	bucket := p.Bucket(dim)
	if len(bucket) == 0 {
		return "", 0, false
	}
	keys := make([]string, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if bucket[k] > bucket[best] {
			best = k
		}
	}
	return best, bucket[best], true
}
