package view

import "net/url"

// Query 地址栏编码的视图状态（search/sort/cat 管条目，
// lsearch/lsort 管清单）。
type Query struct {
	Search   string
	Sort     SortKey
	Category string

	ListSearch string
	ListSort   SortKey
}

// ParseQuery 从 URL 查询参数解出视图状态，带默认值
func ParseQuery(v url.Values) Query {
	q := Query{
		Search:     v.Get("search"),
		Sort:       ParseSort(v.Get("sort")),
		Category:   v.Get("cat"),
		ListSearch: v.Get("lsearch"),
		ListSort:   ParseSort(v.Get("lsort")),
	}
	if q.Category == "" {
		q.Category = CategoryAll
	}
	return q
}

// Encode 反向编码（默认值不写进 URL，保持链接干净）
func (q Query) Encode() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != DefaultSort {
		v.Set("sort", string(q.Sort))
	}
	if q.Category != "" && q.Category != CategoryAll {
		v.Set("cat", q.Category)
	}
	if q.ListSearch != "" {
		v.Set("lsearch", q.ListSearch)
	}
	if q.ListSort != DefaultSort {
		v.Set("lsort", string(q.ListSort))
	}
	return v
}
