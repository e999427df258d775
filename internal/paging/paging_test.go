package paging

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specbuilder/internal/binding"
	"github.com/roach88/specbuilder/internal/operation"
	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/testutil"
)

func sortBuilder() *SortBuilder {
	employee := testutil.Schema().MustEntity("Employee")
	return NewSortBuilder().
		BindSort(employee.MustAttribute("name")).
		BindSortAs("employeeBirthDate", employee.MustAttribute("birthDate"))
}

func TestRequest_PageSize(t *testing.T) {
	testCases := []struct {
		size int
		want int
	}{
		{size: 0, want: DefaultPageSize},
		{size: 1, want: DefaultPageSize},
		{size: -5, want: DefaultPageSize},
		{size: 2, want: 2},
		{size: 10, want: 10},
	}

	for _, tc := range testCases {
		t.Run(strconv.Itoa(tc.size), func(t *testing.T) {
			assert.Equal(t, tc.want, Request{Size: tc.size}.PageSize())
		})
	}
}

func TestBuild_Unsorted(t *testing.T) {
	page, err := sortBuilder().Build(Request{Page: 2, Size: 5})
	require.NoError(t, err)

	assert.False(t, page.Sorted())
	assert.Equal(t, query.Page{Number: 2, Size: 5}, page)
	assert.Equal(t, 10, page.Offset())
}

func TestBuild_Orders(t *testing.T) {
	page, err := sortBuilder().Build(Request{
		Size: 10,
		Sort: []SortOrder{Desc("employeeBirthDate"), {Property: "name"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []query.Order{
		{Attribute: "birthDate", Direction: query.Desc},
		{Attribute: "name", Direction: query.Asc},
	}, page.Orders)
}

func TestBuild_UnboundSortProperty(t *testing.T) {
	_, err := sortBuilder().Build(Request{Sort: []SortOrder{Asc("email")}})
	require.Error(t, err)

	var lerr *binding.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "sort", lerr.Kind)
	assert.Equal(t, "email", lerr.Property)
	assert.Equal(t, `sort property "email" must be bound before use`, err.Error())
}

func TestBuild_NegativePage(t *testing.T) {
	_, err := sortBuilder().Build(Request{Page: -1})
	assert.ErrorContains(t, err, "page number -1 is negative")
}

func TestBindSort_FirstBindingWins(t *testing.T) {
	employee := testutil.Schema().MustEntity("Employee")
	b := NewSortBuilder().
		BindSortAs("who", employee.MustAttribute("name")).
		BindSortAs("who", employee.MustAttribute("email"))

	page, err := b.Build(Request{Sort: []SortOrder{Asc("who")}})
	require.NoError(t, err)
	assert.Equal(t, "name", page.Orders[0].Attribute)
}

func TestBindSort_Errors(t *testing.T) {
	s := testutil.Schema()
	employee := s.MustEntity("Employee")
	phone := s.MustEntity("Phone")

	testCases := []struct {
		name    string
		builder *SortBuilder
		wantErr string
	}{
		{
			name:    "mixed entities",
			builder: NewSortBuilder().BindSort(employee.MustAttribute("name")).BindSort(phone.MustAttribute("number")),
			wantErr: "attribute Phone.number does not belong to Employee",
		},
		{
			name:    "empty property",
			builder: NewSortBuilder().BindSortAs("", employee.MustAttribute("name")),
			wantErr: "property can not be empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build(Request{})
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRequest_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"operations": [{"property": "employeeName", "operator": "EQ", "value": "Ozay"}],
		"page": 1,
		"size": 10,
		"sortFields": [{"property": "employeeBirthDate", "direction": "DESC"}, {"property": "name"}]
	}`)

	var req Request
	require.NoError(t, json.Unmarshal(data, &req))

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 10, req.Size)
	assert.Equal(t, []SortOrder{Desc("employeeBirthDate"), Asc("name")}, req.Sort)
	require.Len(t, req.Criteria.Operations, 1)
	assert.Equal(t, operation.NewSingleValue("employeeName", operation.Eq, "Ozay"), req.Criteria.Operations[0])
}

func TestRequest_UnmarshalJSONErrors(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "unknown direction",
			data:    `{"sortFields": [{"property": "name", "direction": "UP"}]}`,
			wantErr: `unknown direction "UP"`,
		},
		{
			name:    "invalid operation",
			data:    `{"operations": [{"property": "name", "operator": "MAYBE"}]}`,
			wantErr: "unknown operator MAYBE",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req Request
			err := json.Unmarshal([]byte(tc.data), &req)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRequest_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Request{Size: 10, Sort: []SortOrder{Desc("name")}})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"operations": [],
		"page": 0,
		"size": 10,
		"sortFields": [{"property": "name", "direction": "DESC"}]
	}`, string(data))
}

func TestResultFrom(t *testing.T) {
	page := Page[testutil.Employee]{
		Content:       testutil.Employees()[:3],
		Number:        1,
		Size:          3,
		TotalElements: 10,
	}

	result := ResultFrom(page, func(e testutil.Employee) string { return e.Name })

	assert.Equal(t, []string{"Doloritas", "April", "Ermina"}, result.Content)
	assert.Equal(t, int64(10), result.TotalElements)
	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 4, result.TotalPages)
	assert.Equal(t, 3, result.Size)
}

func TestPage_TotalPages(t *testing.T) {
	testCases := []struct {
		name  string
		size  int
		total int64
		want  int
	}{
		{name: "empty", size: 10, total: 0, want: 0},
		{name: "exact", size: 10, total: 20, want: 2},
		{name: "remainder", size: 10, total: 21, want: 3},
		{name: "unpaged", size: 0, total: 36, want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Page[int]{Size: tc.size, TotalElements: tc.total}.TotalPages())
		})
	}
}
