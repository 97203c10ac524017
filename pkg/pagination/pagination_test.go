package pagination

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]string
		wantPage  int
		wantLimit int
	}{
		{"defaults when missing", map[string]string{}, 1, 10},
		{"explicit values kept", map[string]string{"page": "3", "limit": "25"}, 3, 25},
		{"zero clamps to one", map[string]string{"page": "0", "limit": "0"}, 1, 1},
		{"negative clamps to one", map[string]string{"page": "-4", "limit": "-1"}, 1, 1},
		{"limit capped", map[string]string{"limit": "5000"}, 1, MaxLimit},
		{"garbage falls back to defaults", map[string]string{"page": "abc", "limit": "x"}, 1, 10},
		{"huge page capped", map[string]string{"page": "9223372036854775807", "limit": "10"}, MaxPage, 10},
		{"page past int range falls back", map[string]string{"page": "99999999999999999999"}, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.raw)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Params{Page: 5, Limit: 10}.Offset())
}

func TestOffsetNeverNegative(t *testing.T) {
	p := FromValues(url.Values{"page": {"9223372036854775807"}, "limit": {"10"}})
	assert.GreaterOrEqual(t, p.Offset(), 0)
	assert.Equal(t, (MaxPage-1)*10, p.Offset())

	for _, limit := range []int{1, 10, MaxLimit} {
		p := Params{Page: math.MaxInt, Limit: limit}
		assert.GreaterOrEqual(t, p.Offset(), 0, "limit %d", limit)
	}
	assert.Equal(t, 0, Params{Page: -3, Limit: 10}.Offset())
}

func TestFromValuesSort(t *testing.T) {
	p := FromValues(url.Values{"sortBy": {"views"}, "sortType": {"DESC"}, "query": {"  cats "}})
	allowed := map[string]string{"views": "v.views", "createdAt": "v.created_at"}

	assert.Equal(t, "v.views", p.Column(allowed, "v.created_at"))
	assert.Equal(t, "DESC", p.Direction())
	assert.Equal(t, "cats", p.Search)

	p = FromValues(url.Values{"sortBy": {"password; DROP TABLE users"}, "sortType": {"up"}})
	assert.Equal(t, "v.created_at", p.Column(allowed, "v.created_at"))
	assert.Equal(t, "ASC", p.Direction())
}

// Concatenating every page in order reproduces the full slice.
func TestPagesCoverSliceWithoutGaps(t *testing.T) {
	all := make([]int, 23)
	for i := range all {
		all[i] = i
	}
	var got []int
	for page := 1; ; page++ {
		p := Normalize(map[string]string{"page": strconv.Itoa(page), "limit": "5"})
		if p.Offset() >= len(all) {
			break
		}
		end := p.Offset() + p.Limit
		if end > len(all) {
			end = len(all)
		}
		got = append(got, all[p.Offset():end]...)
	}
	assert.Equal(t, all, got)
}

func TestNewPageNeverNil(t *testing.T) {
	pg := NewPage[string](nil, Params{Page: 2, Limit: 5}, 7)
	assert.NotNil(t, pg.Items)
	assert.Equal(t, int64(7), pg.Total)
	assert.Equal(t, 2, pg.Page)
}
