package match

import (
	"strings"
	"unicode/utf8"

	"github.com/rushteam/tastekit/core"
)

// Suggest 生成搜索联想词：按目录顺序收集 name、country、milk_type、maturation 中
// 小写形式包含查询的取值，按字符串完全相等去重，最多返回 limit 个（limit <= 0 时取 8）。
// 查询少于 2 个字符时返回空。
func Suggest(query string, catalog []*core.CatalogItem, limit int) []string {
	if limit <= 0 {
		limit = core.DefaultSuggestLimit
	}
	if utf8.RuneCountInString(query) < core.MinSuggestQueryLen {
		return nil
	}
	q := normalize(query)
	if q == "" {
		return nil
	}

	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, it := range catalog {
		if it == nil {
			continue
		}
		for _, v := range []string{it.Name, it.Country, it.MilkType, it.Maturation} {
			if v == "" || seen[v] || !strings.Contains(strings.ToLower(v), q) {
				continue
			}
			seen[v] = true
			out = append(out, v)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
