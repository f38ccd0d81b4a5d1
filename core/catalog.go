package core

import "context"

// CatalogItem 是目录中的一个商品，例如一款奶酪。
//
// 引擎对 CatalogItem 只读；可选字段使用指针表示，nil 即"无值"，
// 不会被当作空字符串参与子串匹配。
type CatalogItem struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Producer      *string  `json:"producer,omitempty" yaml:"producer,omitempty"`
	Country       string   `json:"country" yaml:"country"`
	Region        *string  `json:"region,omitempty" yaml:"region,omitempty"`
	MilkType      string   `json:"milk_type" yaml:"milk_type"`
	Maturation    string   `json:"maturation" yaml:"maturation"`
	FlavorProfile []string `json:"flavor_profile" yaml:"flavor_profile"`
	Pairings      []string `json:"pairings" yaml:"pairings"`
	Designation   *string  `json:"designation,omitempty" yaml:"designation,omitempty"`
	AvgRating     float64  `json:"avg_rating" yaml:"avg_rating"`
}

// HasFlavor 判断 flavor_profile 中是否包含指定风味（精确匹配）。
func (c *CatalogItem) HasFlavor(flavor string) bool {
	for _, f := range c.FlavorProfile {
		if f == flavor {
			return true
		}
	}
	return false
}

// Value 返回某个单值维度上的取值；flavor_profile 是集合维度，返回 ("", false)。
func (c *CatalogItem) Value(dim Dimension) (string, bool) {
	switch dim {
	case DimMilkType:
		return c.MilkType, true
	case DimCountry:
		return c.Country, true
	case DimMaturation:
		return c.Maturation, true
	default:
		return "", false
	}
}

// StringPtr 便于构造可选字段。
func StringPtr(s string) *string {
	return &s
}

// Deref 返回可选字段的值，nil 时返回 ("", false)。
func Deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// IndexCatalog 按 ID 建立索引。重复 ID 以首次出现为准。
func IndexCatalog(catalog []*CatalogItem) map[string]*CatalogItem {
	idx := make(map[string]*CatalogItem, len(catalog))
	for _, it := range catalog {
		if it == nil {
			continue
		}
		if _, ok := idx[it.ID]; !ok {
			idx[it.ID] = it
		}
	}
	return idx
}

// CatalogAccessor 是目录存储的只读视图，由外部存储实现（store.KVCatalog / store.SQLCatalog）。
//
// Get 在物品不存在时返回 (nil, nil)，而不是错误。
type CatalogAccessor interface {
	ListAll(ctx context.Context) ([]*CatalogItem, error)
	Get(ctx context.Context, id string) (*CatalogItem, error)
}
