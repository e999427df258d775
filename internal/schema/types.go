package schema

import (
	"fmt"
	"strings"
)

// Type is the declared value type of an attribute.
//
// Value coercion converts loosely typed operands to the Go type that
// corresponds to the attribute's Type:
//
//	Type        Go value
//	----        --------
//	string      string
//	int         int64
//	float       float64
//	bool        bool
//	date        time.Time (UTC midnight)
//	time        time.Time
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeDate   Type = "date"
	TypeTime   Type = "time"
)

// ValidTypes lists every supported attribute type.
var ValidTypes = []Type{TypeString, TypeInt, TypeFloat, TypeBool, TypeDate, TypeTime}

// Valid reports whether t is one of ValidTypes.
func (t Type) Valid() bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Kind is the cardinality of a relationship step.
type Kind string

const (
	KindOneToOne  Kind = "one_to_one"
	KindOneToMany Kind = "one_to_many"
	KindManyToOne Kind = "many_to_one"
)

// Valid reports whether k is a known relationship kind.
func (k Kind) Valid() bool {
	switch k {
	case KindOneToOne, KindOneToMany, KindManyToOne:
		return true
	}
	return false
}

// Attribute is a named scalar field of a declared type on an entity.
// Attributes are used as predicate targets and sort keys.
type Attribute struct {
	Entity string // Owning entity name (e.g., "Employee")
	Name   string // Attribute name (e.g., "birthDate")
	Column string // Column name in the entity table (e.g., "birth_date")
	Type   Type
}

// ID returns the qualified attribute reference "Entity.name".
func (a Attribute) ID() string {
	return a.Entity + "." + a.Name
}

func (a Attribute) String() string {
	return a.ID()
}

// Relation is a relationship step: a named traversal from Source to Target.
//
// The join condition is always:
//
//	<target alias>.<ForeignColumn> = <source alias>.<LocalColumn>
//
// so a one-to-many step from Employee to Phone has LocalColumn "id" and
// ForeignColumn "employee_id", and the reverse many-to-one step has
// LocalColumn "employee_id" and ForeignColumn "id".
type Relation struct {
	Name          string // Step name on the source entity (e.g., "phones")
	Source        string // Source entity name
	Target        string // Target entity name
	Kind          Kind
	LocalColumn   string // Column on the source table
	ForeignColumn string // Column on the target table
}

// ID returns the stable identity of the step ("Source.name").
// The join graph keys its trie on this value.
func (r Relation) ID() string {
	return r.Source + "." + r.Name
}

func (r Relation) String() string {
	return r.ID()
}

// JoinPath is an ordered sequence of relationship steps from the query root
// to the entity owning a terminal attribute. An empty path means the
// attribute lives on the root.
type JoinPath []Relation

// String renders the path as "Employee.phones > Phone.calls".
func (p JoinPath) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	parts := make([]string, len(p))
	for i, r := range p {
		parts[i] = r.ID()
	}
	return strings.Join(parts, " > ")
}

// Entity is an entity type backed by one table.
type Entity struct {
	Name       string
	Table      string
	PrimaryKey string      // Primary key column
	Attributes []Attribute // Declaration order
	Relations  []Relation  // Declaration order
}

// Attribute looks up an attribute by name.
func (e Entity) Attribute(name string) (Attribute, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// MustAttribute is like Attribute but panics if the attribute is missing.
// Intended for statically known schemas (fixtures, tests).
func (e Entity) MustAttribute(name string) Attribute {
	a, ok := e.Attribute(name)
	if !ok {
		panic(fmt.Sprintf("schema: entity %s has no attribute %q", e.Name, name))
	}
	return a
}

// Relation looks up a relationship step by name.
func (e Entity) Relation(name string) (Relation, bool) {
	for _, r := range e.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// MustRelation is like Relation but panics if the step is missing.
func (e Entity) MustRelation(name string) Relation {
	r, ok := e.Relation(name)
	if !ok {
		panic(fmt.Sprintf("schema: entity %s has no relation %q", e.Name, name))
	}
	return r
}
