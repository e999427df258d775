package query

import (
	"fmt"

	"github.com/roach88/specbuilder/internal/schema"
)

// From is a query source: the Root or a Join handle.
//
// This is a sealed interface - only *Root and *Join implement it.
type From interface {
	// Entity is the entity type rows of this source belong to.
	Entity() schema.Entity

	// Alias is the table alias used when rendering ("t0", "j1", ...).
	Alias() string

	// Join requests a new join over rel. Every call creates a new handle.
	Join(rel schema.Relation) (*Join, error)

	// Get returns the typed path to the named attribute of Entity.
	Get(name string) (Path, error)

	fromNode() // Marker method - seals interface to this package
}

// Root is the queried entity. It owns every join created beneath it.
type Root struct {
	schema *schema.Schema
	entity schema.Entity
	joins  []*Join
}

// NewRoot creates a query root for entity. The schema resolves join targets.
func NewRoot(s *schema.Schema, entity schema.Entity) *Root {
	return &Root{schema: s, entity: entity}
}

func (r *Root) fromNode() {}

// Entity returns the root entity.
func (r *Root) Entity() schema.Entity { return r.entity }

// Alias returns the root alias, always "t0".
func (r *Root) Alias() string { return "t0" }

// Schema returns the schema used to resolve join targets.
func (r *Root) Schema() *schema.Schema { return r.schema }

// Join creates a join from the root over rel.
func (r *Root) Join(rel schema.Relation) (*Join, error) {
	return r.newJoin(r, rel)
}

// Get returns the path to a root attribute.
func (r *Root) Get(name string) (Path, error) {
	return get(r, name)
}

// Joins returns every join requested under this root, in request order.
// The returned slice must not be modified.
func (r *Root) Joins() []*Join {
	return r.joins
}

func (r *Root) newJoin(parent From, rel schema.Relation) (*Join, error) {
	if rel.Source != parent.Entity().Name {
		return nil, fmt.Errorf("cannot join %s from %s", rel.ID(), parent.Entity().Name)
	}
	target, ok := r.schema.Entity(rel.Target)
	if !ok {
		return nil, fmt.Errorf("join %s: unknown target entity %q", rel.ID(), rel.Target)
	}

	j := &Join{
		root:     r,
		parent:   parent,
		relation: rel,
		entity:   target,
		alias:    fmt.Sprintf("j%d", len(r.joins)+1),
	}
	r.joins = append(r.joins, j)
	return j, nil
}

// Join is a join handle: the target side of one relationship step.
//
// Joins are always inner joins.
type Join struct {
	root     *Root
	parent   From
	relation schema.Relation
	entity   schema.Entity
	alias    string
}

func (j *Join) fromNode() {}

// Entity returns the joined (target) entity.
func (j *Join) Entity() schema.Entity { return j.entity }

// Alias returns the join alias.
func (j *Join) Alias() string { return j.alias }

// Parent returns the source this join was requested from.
func (j *Join) Parent() From { return j.parent }

// Relation returns the relationship step this join traverses.
func (j *Join) Relation() schema.Relation { return j.relation }

// Join creates a nested join from this handle over rel.
func (j *Join) Join(rel schema.Relation) (*Join, error) {
	return j.root.newJoin(j, rel)
}

// Get returns the path to an attribute of the joined entity.
func (j *Join) Get(name string) (Path, error) {
	return get(j, name)
}

// Path is a typed reference to an attribute reachable from a From.
type Path struct {
	From      From
	Attribute schema.Attribute
}

func (p Path) String() string {
	return p.From.Alias() + "." + p.Attribute.Column
}

func get(from From, name string) (Path, error) {
	attr, ok := from.Entity().Attribute(name)
	if !ok {
		return Path{}, fmt.Errorf("entity %s has no attribute %q", from.Entity().Name, name)
	}
	return Path{From: from, Attribute: attr}, nil
}
