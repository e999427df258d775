// Package binding maps client-facing property names to attributes and the
// join paths that reach them.
//
// A Registry is filled while a builder is configured and then frozen with
// Snapshot. Snapshots are read-only and may be shared by concurrent
// compiles.
package binding

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/specbuilder/internal/schema"
)

// ErrUnbound is matched by every LookupError.
var ErrUnbound = errors.New("property not bound")

// Binding associates a property with a terminal attribute and the
// relationship steps leading to it from the query root.
type Binding struct {
	Property  string
	Attribute schema.Attribute
	Path      schema.JoinPath // Empty = attribute on the root
}

// Joined reports whether the binding needs at least one join.
func (b Binding) Joined() bool {
	return len(b.Path) > 0
}

func (b Binding) String() string {
	if !b.Joined() {
		return fmt.Sprintf("%s -> %s", b.Property, b.Attribute.ID())
	}
	return fmt.Sprintf("%s -> %s via %s", b.Property, b.Attribute.ID(), b.Path)
}

// LookupError reports a property that has no binding.
type LookupError struct {
	Kind     string // "filter" or "sort"
	Property string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s property %q must be bound before use", e.Kind, e.Property)
}

// Is makes every LookupError match ErrUnbound.
func (e *LookupError) Is(target error) bool {
	return target == ErrUnbound
}

// IsUnbound returns true if err is (or wraps) a LookupError.
func IsUnbound(err error) bool {
	return errors.Is(err, ErrUnbound)
}

// Registry stores bindings by property name.
type Registry struct {
	kind      string
	overwrite bool
	bindings  map[string]Binding
}

// NewRegistry creates a filter registry: rebinding a property overwrites
// the earlier binding.
func NewRegistry() *Registry {
	return &Registry{kind: "filter", overwrite: true, bindings: make(map[string]Binding)}
}

// NewSortRegistry creates a sort registry: the first binding for a
// property wins and later ones are ignored.
func NewSortRegistry() *Registry {
	return &Registry{kind: "sort", bindings: make(map[string]Binding)}
}

// Put stores b. It reports whether b was stored.
func (r *Registry) Put(b Binding) bool {
	if _, exists := r.bindings[b.Property]; exists && !r.overwrite {
		return false
	}
	r.bindings[b.Property] = b
	return true
}

// Lookup returns the binding for property or a *LookupError.
func (r *Registry) Lookup(property string) (Binding, error) {
	b, ok := r.bindings[property]
	if !ok {
		return Binding{}, &LookupError{Kind: r.kind, Property: property}
	}
	return b, nil
}

// Len returns the number of bound properties.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Properties returns the bound property names, sorted.
func (r *Registry) Properties() []string {
	names := make([]string, 0, len(r.bindings))
	for name := range r.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns an independent copy. Later Puts on r do not affect it.
func (r *Registry) Snapshot() *Registry {
	cp := &Registry{
		kind:      r.kind,
		overwrite: r.overwrite,
		bindings:  make(map[string]Binding, len(r.bindings)),
	}
	for k, b := range r.bindings {
		path := make(schema.JoinPath, len(b.Path))
		copy(path, b.Path)
		b.Path = path
		cp.bindings[k] = b
	}
	return cp
}

// Lookuper resolves properties to bindings. *Registry implements it.
type Lookuper interface {
	Lookup(property string) (Binding, error)
}
