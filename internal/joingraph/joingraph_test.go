package joingraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/schema"
	"github.com/roach88/specbuilder/internal/testutil"
)

func newGraph(t *testing.T) (*schema.Schema, *query.Root, *Graph) {
	t.Helper()
	s := testutil.Schema()
	root := query.NewRoot(s, s.MustEntity("Employee"))
	return s, root, New(root)
}

func mustPath(t *testing.T, s *schema.Schema, refs ...string) schema.JoinPath {
	t.Helper()
	p, err := s.Path(refs...)
	require.NoError(t, err)
	return p
}

func TestResolve_EmptyPathReturnsRoot(t *testing.T) {
	_, root, g := newGraph(t)

	from, err := g.Resolve(nil)
	require.NoError(t, err)
	assert.Same(t, root, from)

	from, err = g.Resolve(schema.JoinPath{})
	require.NoError(t, err)
	assert.Same(t, root, from)

	assert.Equal(t, 0, g.Len())
	assert.Empty(t, root.Joins(), "no join requested for root attributes")
}

func TestResolve_SharedPrefixReusesHandle(t *testing.T) {
	s, root, g := newGraph(t)

	phones := mustPath(t, s, "Employee.phones")

	first, err := g.Resolve(phones)
	require.NoError(t, err)
	second, err := g.Resolve(phones)
	require.NoError(t, err)

	assert.Same(t, first, second, "identical steps must yield the identical join handle")
	assert.Equal(t, 1, g.Len())
	assert.Len(t, root.Joins(), 1, "exactly one join request per distinct step")
}

func TestResolve_LongerPathExtendsPrefix(t *testing.T) {
	s, root, g := newGraph(t)

	phoneJoin, err := g.Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)

	deep, err := g.Resolve(mustPath(t, s, "Employee.phones", "Phone.employee", "Employee.socialSecurity"))
	require.NoError(t, err)

	join, ok := deep.(*query.Join)
	require.True(t, ok)
	assert.Equal(t, "SocialSecurity", join.Entity().Name)

	back, ok := join.Parent().(*query.Join)
	require.True(t, ok)
	assert.Same(t, phoneJoin, back.Parent(), "shared prefix resolves to the existing handle")

	assert.Equal(t, 3, g.Len())
	assert.Len(t, root.Joins(), 3)
}

func TestResolve_SameStepUnderDifferentParents(t *testing.T) {
	s, root, g := newGraph(t)

	direct, err := g.Resolve(mustPath(t, s, "Employee.socialSecurity"))
	require.NoError(t, err)

	viaPhone, err := g.Resolve(mustPath(t, s, "Employee.phones", "Phone.employee", "Employee.socialSecurity"))
	require.NoError(t, err)

	assert.NotSame(t, direct, viaPhone, "same step at a different trie position is a distinct join")
	assert.Equal(t, 4, g.Len())
	assert.Len(t, root.Joins(), 4)
}

func TestResolve_AliasesFollowRequestOrder(t *testing.T) {
	s, _, g := newGraph(t)

	phones, err := g.Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)
	ssn, err := g.Resolve(mustPath(t, s, "Employee.socialSecurity"))
	require.NoError(t, err)
	again, err := g.Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)

	assert.Equal(t, "j1", phones.Alias())
	assert.Equal(t, "j2", ssn.Alias())
	assert.Equal(t, "j1", again.Alias())
}

func TestResolve_BrokenChain(t *testing.T) {
	s, root, g := newGraph(t)

	// Phone.employee does not start at the Employee root.
	_, err := g.Resolve(mustPath(t, s, "Phone.employee"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot join Phone.employee from Employee")
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, root.Joins())
}

func TestNew_AdoptsExistingJoins(t *testing.T) {
	s, root, g := newGraph(t)

	first, err := g.Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)
	_, err = g.Resolve(mustPath(t, s, "Employee.phones", "Phone.employee"))
	require.NoError(t, err)

	other := New(root)
	assert.Equal(t, 2, other.Len())
	assert.Same(t, root, other.Root())

	second, err := other.Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)
	assert.Same(t, first, second, "a later graph reuses the join on the root")

	_, err = other.Resolve(mustPath(t, s, "Employee.socialSecurity"))
	require.NoError(t, err)
	assert.Len(t, root.Joins(), 3, "only the new step is joined")
}

func TestNew_SkipsDuplicateJoins(t *testing.T) {
	s, root, _ := newGraph(t)
	phones := s.MustEntity("Employee").MustRelation("phones")

	j1, err := root.Join(phones)
	require.NoError(t, err)
	_, err = root.Join(phones)
	require.NoError(t, err)

	g := New(root)
	assert.Equal(t, 1, g.Len())

	from, err := g.Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)
	assert.Same(t, j1, from, "the first join for a step wins")
}

func TestNew_SeparateRootsDoNotShare(t *testing.T) {
	s, root, g := newGraph(t)

	first, err := g.Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)

	otherRoot := query.NewRoot(s, s.MustEntity("Employee"))
	second, err := New(otherRoot).Resolve(mustPath(t, s, "Employee.phones"))
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Len(t, root.Joins(), 1)
	assert.Len(t, otherRoot.Joins(), 1)
}
