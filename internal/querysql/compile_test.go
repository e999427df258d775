package querysql

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/schema"
	"github.com/roach88/specbuilder/internal/testutil"
)

type fixture struct {
	schema   *schema.Schema
	employee schema.Entity
	root     *query.Root
}

func newFixture() *fixture {
	s := testutil.Schema()
	employee := s.MustEntity("Employee")
	return &fixture{schema: s, employee: employee, root: query.NewRoot(s, employee)}
}

func (f *fixture) join(t *testing.T, rel string) *query.Join {
	t.Helper()
	j, err := f.root.Join(f.employee.MustRelation(rel))
	require.NoError(t, err)
	return j
}

func get(t *testing.T, from query.From, name string) query.Path {
	t.Helper()
	p, err := from.Get(name)
	require.NoError(t, err)
	return p
}

func assertGolden(t *testing.T, name, sql string, params []any) {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(sql+"\n"+string(data)+"\n"))
}

func (f *fixture) phoneSelect(t *testing.T) *query.Select {
	phones := f.join(t, "phones")
	return &query.Select{
		Root: f.root,
		Filter: query.And(
			query.Equal(get(t, phones, "number"), "5555"),
			query.Equal(get(t, phones, "phoneType"), "HOME"),
		),
		Page: query.Page{Size: 10, Orders: []query.Order{{Attribute: "name", Direction: query.Asc}}},
	}
}

func TestCompile_PhoneJoin(t *testing.T) {
	f := newFixture()

	sql, params, err := NewSQLCompiler().Compile(f.phoneSelect(t))
	require.NoError(t, err)

	assert.NotContains(t, sql, "5555") // Value NOT in SQL
	assertGolden(t, "select_phone_join", sql, params)
}

func TestCompileCount_PhoneJoin(t *testing.T) {
	f := newFixture()

	sql, params, err := NewSQLCompiler().CompileCount(f.phoneSelect(t))
	require.NoError(t, err)

	assert.NotContains(t, sql, "ORDER BY")
	assert.NotContains(t, sql, "LIMIT")
	assertGolden(t, "count_phone_join", sql, params)
}

func TestCompile_RangeBooleanNotIn(t *testing.T) {
	f := newFixture()
	social := f.join(t, "socialSecurity")

	sel := &query.Select{
		Root: f.root,
		Filter: query.And(
			query.InRange(get(t, f.root, "birthDate"),
				time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2005, time.December, 31, 0, 0, 0, 0, time.UTC)),
			query.True(get(t, social, "verified")),
			query.Negate(query.Member(get(t, f.root, "id"), int64(1), int64(2))),
		),
		Page: query.Page{Number: 2, Size: 5, Orders: []query.Order{{Attribute: "birthDate", Direction: query.Desc}}},
	}

	sql, params, err := NewSQLCompiler().Compile(sel)
	require.NoError(t, err)
	assertGolden(t, "select_range_boolean_not_in", sql, params)
}

func TestCompile_Fragments(t *testing.T) {
	f := newFixture()
	name := get(t, f.root, "name")
	id := get(t, f.root, "id")

	testCases := []struct {
		name       string
		filter     query.Predicate
		wantWhere  string
		wantParams []any
	}{
		{
			name:      "empty conjunction is always true",
			filter:    query.And(),
			wantWhere: " WHERE 1 = 1 ",
		},
		{
			name:       "comparison",
			filter:     query.GreaterThanOrEqual(id, int64(3)),
			wantWhere:  " WHERE t0.id >= ? ",
			wantParams: []any{int64(3)},
		},
		{
			name:       "not equal",
			filter:     query.NotEqual(name, "Ozay"),
			wantWhere:  " WHERE t0.name <> ? ",
			wantParams: []any{"Ozay"},
		},
		{
			name:      "empty in matches nothing",
			filter:    query.Member(id),
			wantWhere: " WHERE 1 = 0 ",
		},
		{
			name:      "null",
			filter:    query.Null(name),
			wantWhere: " WHERE t0.name IS NULL ",
		},
		{
			name:      "not null",
			filter:    query.NotNull(name),
			wantWhere: " WHERE t0.name IS NOT NULL ",
		},
		{
			name:       "not like",
			filter:     query.Negate(query.Matches(name, "%oz%")),
			wantWhere:  " WHERE NOT (t0.name LIKE ?) ",
			wantParams: []any{"%oz%"},
		},
		{
			name:       "nested conjunction",
			filter:     query.And(query.And(query.Null(name), query.Equal(id, 1)), query.True(name)),
			wantWhere:  " WHERE (t0.name IS NULL AND t0.id = ?) AND t0.name = 1 ",
			wantParams: []any{int64(1)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, params, err := NewSQLCompiler().Compile(&query.Select{Root: f.root, Filter: tc.filter})
			require.NoError(t, err)

			assert.Contains(t, sql, tc.wantWhere)
			assert.Equal(t, tc.wantParams, params)
		})
	}
}

func TestCompile_OrderByMandatory(t *testing.T) {
	f := newFixture()

	testCases := []struct {
		name string
		page query.Page
		want string
	}{
		{
			name: "unsorted unpaged",
			page: query.Unpaged(),
			want: " ORDER BY t0.id ASC",
		},
		{
			name: "primary key not repeated",
			page: query.Page{Orders: []query.Order{{Attribute: "id", Direction: query.Desc}}},
			want: " ORDER BY t0.id DESC",
		},
		{
			name: "missing direction is ascending",
			page: query.Page{Orders: []query.Order{{Attribute: "surname"}}},
			want: " ORDER BY t0.surname COLLATE BINARY ASC, t0.id ASC",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, params, err := NewSQLCompiler().Compile(&query.Select{Root: f.root, Page: tc.page})
			require.NoError(t, err)

			assert.True(t, len(sql) > len(tc.want))
			assert.Equal(t, tc.want, sql[len(sql)-len(tc.want):])
			assert.NotContains(t, sql, "WHERE")
			assert.Empty(t, params)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	f := newFixture()
	name := get(t, f.root, "name")

	testCases := []struct {
		name    string
		sel     *query.Select
		wantErr string
	}{
		{
			name:    "nil select",
			sel:     nil,
			wantErr: "cannot compile nil select",
		},
		{
			name:    "no root",
			sel:     &query.Select{},
			wantErr: "without root",
		},
		{
			name:    "unknown sort attribute",
			sel:     &query.Select{Root: f.root, Page: query.Page{Orders: []query.Order{{Attribute: "number"}}}},
			wantErr: `sort attribute "number" not found on Employee`,
		},
		{
			name:    "unknown direction",
			sel:     &query.Select{Root: f.root, Page: query.Page{Orders: []query.Order{{Attribute: "name", Direction: "UP"}}}},
			wantErr: `unknown direction "UP"`,
		},
		{
			name:    "unsupported parameter",
			sel:     &query.Select{Root: f.root, Filter: query.Equal(name, []string{"a"})},
			wantErr: "unsupported parameter type []string",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := NewSQLCompiler().Compile(tc.sel)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestParam(t *testing.T) {
	ist := time.FixedZone("IST", 3*60*60)
	at := time.Date(2021, time.March, 4, 15, 30, 0, 0, ist)

	testCases := []struct {
		name string
		typ  schema.Type
		in   any
		want any
	}{
		{name: "date", typ: schema.TypeDate, in: at, want: "2021-03-04"},
		{name: "time is UTC", typ: schema.TypeTime, in: at, want: "2021-03-04T12:30:00.000000000Z"},
		{name: "int widened", typ: schema.TypeInt, in: 7, want: int64(7)},
		{name: "bool", typ: schema.TypeBool, in: true, want: true},
		{name: "nil", typ: schema.TypeString, in: nil, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Param(schema.Attribute{Entity: "E", Name: "a", Type: tc.typ}, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
