package view

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryDefaults(t *testing.T) {
	q := ParseQuery(url.Values{})
	assert.Equal(t, "", q.Search)
	assert.Equal(t, DefaultSort, q.Sort)
	assert.Equal(t, CategoryAll, q.Category)
	assert.Equal(t, DefaultSort, q.ListSort)
}

func TestParseQueryRoundTrip(t *testing.T) {
	in := url.Values{}
	in.Set("search", "milk")
	in.Set("sort", "name_asc")
	in.Set("cat", "Dairy")
	in.Set("lsearch", "groc")
	in.Set("lsort", "date_asc")

	q := ParseQuery(in)
	assert.Equal(t, "milk", q.Search)
	assert.Equal(t, SortNameAsc, q.Sort)
	assert.Equal(t, "Dairy", q.Category)
	assert.Equal(t, "groc", q.ListSearch)
	assert.Equal(t, SortDateAsc, q.ListSort)

	assert.Equal(t, in, q.Encode())
}

func TestEncodeOmitsDefaults(t *testing.T) {
	q := Query{Sort: DefaultSort, Category: CategoryAll, ListSort: DefaultSort}
	assert.Empty(t, q.Encode())
}
