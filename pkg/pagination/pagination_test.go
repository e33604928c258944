package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", DefaultParams()},
		{"custom", "?page=3&per_page=5", Params{Page: 3, PerPage: 5}},
		{"negative page", "?page=-1", DefaultParams()},
		{"garbage", "?page=two&per_page=x", DefaultParams()},
		{"clamped", "?per_page=1000", Params{Page: 1, PerPage: MaxPerPage}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest(http.MethodGet, "/library"+tt.query, nil))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, DefaultParams().Offset())
	assert.Equal(t, 10, Params{Page: 3, PerPage: 5}.Offset())
}

func TestPaginate_MiddlePage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	res := Paginate(items, Params{Page: 2, PerPage: 3})

	assert.Equal(t, []int{4, 5, 6}, res.Data)
	assert.Equal(t, 7, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	res := Paginate(items, Params{Page: 1, PerPage: 2})

	res.Data[0] = 99
	assert.Equal(t, 1, items[0])
}

func TestPaginate_PastTheEnd(t *testing.T) {
	res := Paginate([]int{1, 2}, Params{Page: 5, PerPage: 2})

	assert.Empty(t, res.Data)
	assert.NotNil(t, res.Data)
	assert.False(t, res.HasNext)
}

func TestPaginate_Empty(t *testing.T) {
	res := Paginate([]string(nil), DefaultParams())

	assert.Equal(t, []string{}, res.Data)
	assert.Equal(t, 0, res.TotalPages)
}
