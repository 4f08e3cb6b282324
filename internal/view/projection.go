package view

import (
	"sort"
	"strings"

	"go-shoplist/internal/domain"
)

// 纯函数投影：从原始集合 + 查询参数推导可见集。无 I/O、无缓存，
// 输入变了就整体重算。排序全部走稳定排序，平局保持输入序。

// SortKey 排序键白名单
type SortKey string

const (
	SortNameAsc  SortKey = "name_asc"
	SortNameDesc SortKey = "name_desc"
	SortCatAsc   SortKey = "category_asc"
	SortCatDesc  SortKey = "category_desc"
	SortDateAsc  SortKey = "date_asc"
	SortDateDesc SortKey = "date_desc"
)

// DefaultSort 未指定或非法时的兜底排序
const DefaultSort = SortDateDesc

// CategoryAll 不过滤分类
const CategoryAll = "All"

// ParseSort 白名单校验，非法值落回 DefaultSort
func ParseSort(raw string) SortKey {
	switch SortKey(raw) {
	case SortNameAsc, SortNameDesc, SortCatAsc, SortCatDesc, SortDateAsc, SortDateDesc:
		return SortKey(raw)
	}
	return DefaultSort
}

func matchName(name, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

// VisibleItems 按条目名大小写不敏感子串匹配 search，按 category 精确
// 过滤（All 不过滤），再按 sort 排序。createdAt 是 RFC3339 字符串，
// 直接按字典序比较。
func VisibleItems(items []domain.ShoppingItem, search, category string, key SortKey) []domain.ShoppingItem {
	out := make([]domain.ShoppingItem, 0, len(items))
	for _, it := range items {
		if !matchName(it.Name, search) {
			continue
		}
		if category != "" && category != CategoryAll && it.Category != category {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortNameAsc:
			return a.Name < b.Name
		case SortNameDesc:
			return b.Name < a.Name
		case SortCatAsc:
			return a.Category < b.Category
		case SortCatDesc:
			return b.Category < a.Category
		case SortDateAsc:
			return a.CreatedAt < b.CreatedAt
		default: // date_desc
			return b.CreatedAt < a.CreatedAt
		}
	})
	return out
}

// VisibleLists 同形状的清单投影（无分类维度）
func VisibleLists(lists []domain.ShoppingList, search string, key SortKey) []domain.ShoppingList {
	out := make([]domain.ShoppingList, 0, len(lists))
	for _, l := range lists {
		if matchName(l.Name, search) {
			out = append(out, l)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortNameAsc:
			return a.Name < b.Name
		case SortNameDesc:
			return b.Name < a.Name
		case SortDateAsc:
			return a.CreatedAt < b.CreatedAt
		case SortCatAsc, SortCatDesc:
			// 清单没有分类，退化为名称序
			return a.Name < b.Name
		default: // date_desc
			return b.CreatedAt < a.CreatedAt
		}
	})
	return out
}
