package schema

import (
	"fmt"
	"strings"
)

// Schema is a validated, immutable set of entity definitions.
type Schema struct {
	entities map[string]Entity
	order    []string
}

// New validates the given entities and resolves relation defaults.
//
// Rules:
//   - entity names are unique and every entity has a table and primary key
//   - attribute types are valid; an empty column defaults to the attribute name
//   - relation targets exist and kinds are valid
//   - an empty LocalColumn defaults to the source primary key, an empty
//     ForeignColumn defaults to the target primary key
func New(entities ...Entity) (*Schema, error) {
	s := &Schema{entities: make(map[string]Entity, len(entities))}

	for _, e := range entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity name is required")
		}
		if _, dup := s.entities[e.Name]; dup {
			return nil, fmt.Errorf("duplicate entity %q", e.Name)
		}
		if e.Table == "" {
			return nil, fmt.Errorf("entity %s: table is required", e.Name)
		}
		if e.PrimaryKey == "" {
			return nil, fmt.Errorf("entity %s: primary key is required", e.Name)
		}
		s.entities[e.Name] = e
		s.order = append(s.order, e.Name)
	}

	for _, name := range s.order {
		e := s.entities[name]

		attrs := make([]Attribute, len(e.Attributes))
		seen := make(map[string]bool, len(e.Attributes))
		for i, a := range e.Attributes {
			if seen[a.Name] {
				return nil, fmt.Errorf("entity %s: duplicate attribute %q", e.Name, a.Name)
			}
			seen[a.Name] = true
			if !a.Type.Valid() {
				return nil, fmt.Errorf("entity %s: attribute %s: unsupported type %q", e.Name, a.Name, a.Type)
			}
			a.Entity = e.Name
			if a.Column == "" {
				a.Column = a.Name
			}
			attrs[i] = a
		}
		e.Attributes = attrs

		rels := make([]Relation, len(e.Relations))
		for i, r := range e.Relations {
			target, ok := s.entities[r.Target]
			if !ok {
				return nil, fmt.Errorf("entity %s: relation %s: unknown target %q", e.Name, r.Name, r.Target)
			}
			if !r.Kind.Valid() {
				return nil, fmt.Errorf("entity %s: relation %s: unsupported kind %q", e.Name, r.Name, r.Kind)
			}
			r.Source = e.Name
			if r.LocalColumn == "" {
				r.LocalColumn = e.PrimaryKey
			}
			if r.ForeignColumn == "" {
				r.ForeignColumn = target.PrimaryKey
			}
			rels[i] = r
		}
		e.Relations = rels

		s.entities[name] = e
	}

	return s, nil
}

// MustNew is like New but panics on error. Intended for statically known
// schemas.
func MustNew(entities ...Entity) *Schema {
	s, err := New(entities...)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}

// Entity returns the named entity.
func (s *Schema) Entity(name string) (Entity, bool) {
	e, ok := s.entities[name]
	return e, ok
}

// MustEntity is like Entity but panics if the entity is missing.
func (s *Schema) MustEntity(name string) Entity {
	e, ok := s.entities[name]
	if !ok {
		panic(fmt.Sprintf("schema: unknown entity %q", name))
	}
	return e
}

// Entities returns all entities in declaration order.
func (s *Schema) Entities() []Entity {
	out := make([]Entity, len(s.order))
	for i, name := range s.order {
		out[i] = s.entities[name]
	}
	return out
}

// Attribute resolves a qualified reference "Entity.attribute".
func (s *Schema) Attribute(ref string) (Attribute, error) {
	entityName, name, err := splitRef(ref)
	if err != nil {
		return Attribute{}, err
	}
	e, ok := s.entities[entityName]
	if !ok {
		return Attribute{}, fmt.Errorf("attribute %q: unknown entity %q", ref, entityName)
	}
	a, ok := e.Attribute(name)
	if !ok {
		return Attribute{}, fmt.Errorf("attribute %q: entity %s has no attribute %q", ref, entityName, name)
	}
	return a, nil
}

// Relation resolves a qualified reference "Entity.relation".
func (s *Schema) Relation(ref string) (Relation, error) {
	entityName, name, err := splitRef(ref)
	if err != nil {
		return Relation{}, err
	}
	e, ok := s.entities[entityName]
	if !ok {
		return Relation{}, fmt.Errorf("relation %q: unknown entity %q", ref, entityName)
	}
	r, ok := e.Relation(name)
	if !ok {
		return Relation{}, fmt.Errorf("relation %q: entity %s has no relation %q", ref, entityName, name)
	}
	return r, nil
}

// Path resolves a sequence of qualified relation references into a JoinPath.
func (s *Schema) Path(refs ...string) (JoinPath, error) {
	path := make(JoinPath, 0, len(refs))
	for _, ref := range refs {
		r, err := s.Relation(ref)
		if err != nil {
			return nil, err
		}
		path = append(path, r)
	}
	return path, nil
}

func splitRef(ref string) (string, string, error) {
	entity, name, ok := strings.Cut(ref, ".")
	if !ok || entity == "" || name == "" {
		return "", "", fmt.Errorf("invalid reference %q: want Entity.name", ref)
	}
	return entity, name, nil
}
