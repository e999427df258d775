package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specbuilder/internal/schema"
	"github.com/roach88/specbuilder/internal/testutil"
)

func TestRegistry_PutOverwrites(t *testing.T) {
	s := testutil.Schema()
	employee := s.MustEntity("Employee")

	r := NewRegistry()
	assert.True(t, r.Put(Binding{Property: "name", Attribute: employee.MustAttribute("name")}))
	assert.True(t, r.Put(Binding{Property: "name", Attribute: employee.MustAttribute("surname")}))

	b, err := r.Lookup("name")
	require.NoError(t, err)
	assert.Equal(t, "surname", b.Attribute.Name, "rebinding overwrites")
	assert.Equal(t, 1, r.Len())
}

func TestSortRegistry_FirstBindingWins(t *testing.T) {
	s := testutil.Schema()
	employee := s.MustEntity("Employee")

	r := NewSortRegistry()
	assert.True(t, r.Put(Binding{Property: "name", Attribute: employee.MustAttribute("name")}))
	assert.False(t, r.Put(Binding{Property: "name", Attribute: employee.MustAttribute("surname")}))

	b, err := r.Lookup("name")
	require.NoError(t, err)
	assert.Equal(t, "name", b.Attribute.Name)
}

func TestRegistry_LookupUnbound(t *testing.T) {
	testCases := []struct {
		name    string
		reg     *Registry
		wantErr string
	}{
		{"filter", NewRegistry(), `filter property "surname" must be bound before use`},
		{"sort", NewSortRegistry(), `sort property "surname" must be bound before use`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.reg.Lookup("surname")
			require.Error(t, err)
			assert.EqualError(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrUnbound)
			assert.True(t, IsUnbound(err))

			var lerr *LookupError
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, "surname", lerr.Property)
		})
	}
}

func TestRegistry_SnapshotIsIndependent(t *testing.T) {
	s := testutil.Schema()
	path, err := s.Path("Employee.phones")
	require.NoError(t, err)

	r := NewRegistry()
	r.Put(Binding{Property: "phoneNumber", Attribute: s.MustEntity("Phone").MustAttribute("number"), Path: path})

	snap := r.Snapshot()
	r.Put(Binding{Property: "name", Attribute: s.MustEntity("Employee").MustAttribute("name")})
	path[0] = schema.Relation{Name: "mutated"}

	assert.Equal(t, 1, snap.Len())
	_, err = snap.Lookup("name")
	assert.ErrorIs(t, err, ErrUnbound)

	b, err := snap.Lookup("phoneNumber")
	require.NoError(t, err)
	assert.Equal(t, "Employee.phones", b.Path[0].ID())
}

func TestRegistry_Properties(t *testing.T) {
	employee := testutil.Schema().MustEntity("Employee")

	r := NewRegistry()
	r.Put(Binding{Property: "surname", Attribute: employee.MustAttribute("surname")})
	r.Put(Binding{Property: "email", Attribute: employee.MustAttribute("email")})

	assert.Equal(t, []string{"email", "surname"}, r.Properties())
}

func TestBinding_String(t *testing.T) {
	s := testutil.Schema()
	path, err := s.Path("Employee.phones")
	require.NoError(t, err)

	direct := Binding{Property: "name", Attribute: s.MustEntity("Employee").MustAttribute("name")}
	assert.False(t, direct.Joined())
	assert.Equal(t, "name -> Employee.name", direct.String())

	joined := Binding{Property: "phoneNumber", Attribute: s.MustEntity("Phone").MustAttribute("number"), Path: path}
	assert.True(t, joined.Joined())
	assert.Equal(t, "phoneNumber -> Phone.number via Employee.phones", joined.String())
}
