// Package specification is the entry point for building filters: bind
// client property names to attributes, supply criteria, and get back a
// Specification that compiles to a predicate on demand.
//
//	spec, err := specification.New(employee).
//		BindAs("employeeName", employee.MustAttribute("name")).
//		BindJoinAs("phoneNumber", phone.MustAttribute("number"), employee.MustRelation("phones")).
//		Build(criteria)
//
//	root := query.NewRoot(sch, employee)
//	pred, err := spec.Predicate(root)
//
// Build validates every operation and fails on the first invalid one.
// Unbound properties are reported when the predicate is compiled.
package specification

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/specbuilder/internal/binding"
	"github.com/roach88/specbuilder/internal/coerce"
	"github.com/roach88/specbuilder/internal/compiler"
	"github.com/roach88/specbuilder/internal/joingraph"
	"github.com/roach88/specbuilder/internal/operation"
	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/schema"
)

// MaxJoinSteps is the longest relationship chain a binding may traverse.
const MaxJoinSteps = 4

// ErrNilCriteria is returned by Build when criteria is nil.
var ErrNilCriteria = errors.New("criteria can not be null")

// Builder collects bindings for one root entity.
type Builder struct {
	root     schema.Entity
	bindings *binding.Registry
	errs     []error
	opts     []compiler.Option
	convert  coerce.Func
	logger   *slog.Logger
}

// Option configures the compiled Specification.
type Option func(*Builder)

// WithConverter replaces the default value converter.
func WithConverter(f coerce.Func) Option {
	return func(b *Builder) {
		b.convert = f
		b.opts = append(b.opts, compiler.WithConverter(f))
	}
}

// WithLogger sets the logger used while compiling.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New starts a builder for queries rooted at root.
func New(root schema.Entity, opts ...Option) *Builder {
	b := &Builder{
		root:     root,
		bindings: binding.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind binds attr under its own name. attr must belong to the root entity.
func (b *Builder) Bind(attr schema.Attribute) *Builder {
	return b.BindAs(attr.Name, attr)
}

// BindAs binds property to a root attribute. Rebinding a property
// replaces the earlier binding.
func (b *Builder) BindAs(property string, attr schema.Attribute) *Builder {
	return b.BindJoinAs(property, attr)
}

// BindJoin binds attr under its own name, reached through steps.
func (b *Builder) BindJoin(attr schema.Attribute, steps ...schema.Relation) *Builder {
	return b.BindJoinAs(attr.Name, attr, steps...)
}

// BindJoinAs binds property to attr reached from the root through steps.
//
// The chain must be connected: the first step starts at the root, each
// step starts where the previous one ends, and attr belongs to the entity
// the last step ends at. At most MaxJoinSteps steps are allowed. Problems
// are reported by Build.
func (b *Builder) BindJoinAs(property string, attr schema.Attribute, steps ...schema.Relation) *Builder {
	if err := b.checkChain(property, attr, steps); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	path := make(schema.JoinPath, len(steps))
	copy(path, steps)
	b.bindings.Put(binding.Binding{Property: property, Attribute: attr, Path: path})
	return b
}

func (b *Builder) checkChain(property string, attr schema.Attribute, steps []schema.Relation) error {
	if property == "" {
		return fmt.Errorf("bind %s: property can not be empty", attr.ID())
	}
	if len(steps) > MaxJoinSteps {
		return fmt.Errorf("bind %q: %d join steps exceed the maximum of %d", property, len(steps), MaxJoinSteps)
	}

	at := b.root.Name
	for _, step := range steps {
		if step.Source != at {
			return fmt.Errorf("bind %q: step %s does not start at %s", property, step.ID(), at)
		}
		at = step.Target
	}
	if attr.Entity != at {
		return fmt.Errorf("bind %q: attribute %s does not belong to %s", property, attr.ID(), at)
	}
	return nil
}

// Build validates criteria and snapshots the bindings.
//
// It fails with ErrNilCriteria for nil criteria, with the first binding
// error, or with the first invalid operation (matching
// operation.ErrInvalidArgument).
func (b *Builder) Build(criteria *operation.Criteria) (*Specification, error) {
	if criteria == nil {
		return nil, ErrNilCriteria
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("build specification: %w", err)
	}

	ops := make([]operation.Operation, len(criteria.Operations))
	copy(ops, criteria.Operations)

	bindings := b.bindings.Snapshot()
	opts := append([]compiler.Option{compiler.WithLogger(b.logger)}, b.opts...)

	b.logger.Debug("specification built",
		"root", b.root.Name,
		"bindings", bindings.Len(),
		"operations", len(ops))

	return &Specification{
		root:       b.root,
		operations: ops,
		bindings:   bindings,
		compiler:   compiler.New(bindings, opts...),
	}, nil
}

// Check reports every problem with the bindings and criteria without
// building. Unlike Build it does not stop at the first problem and it
// also reports unbound properties and operands that can not be coerced.
func (b *Builder) Check(criteria *operation.Criteria) []compiler.Diagnostic {
	var diags []compiler.Diagnostic
	for _, err := range b.errs {
		diags = append(diags, compiler.Diagnostic{Field: "bindings", Message: err.Error(), Code: compiler.ErrInvalidBinding})
	}
	return append(diags, compiler.Check(criteria, b.bindings, b.convert)...)
}

// Specification is a validated, immutable filter. It is safe for
// concurrent use as long as each goroutine passes its own *query.Root;
// a root records its joins without locking.
type Specification struct {
	root       schema.Entity
	operations []operation.Operation
	bindings   *binding.Registry
	compiler   *compiler.Compiler
}

// Operations returns the number of operations in the filter.
func (s *Specification) Operations() int {
	return len(s.operations)
}

// Bindings returns the frozen bindings.
func (s *Specification) Bindings() *binding.Registry {
	return s.bindings
}

// Predicate compiles the filter against root, requesting joins from root
// as needed. Joins already on root are reused, so compiling twice against
// one root adds no joins. No operations compile to the always-true
// conjunction.
func (s *Specification) Predicate(root *query.Root) (query.Predicate, error) {
	if root == nil {
		return nil, errors.New("query root can not be null")
	}
	if root.Entity().Name != s.root.Name {
		return nil, fmt.Errorf("specification for %s applied to root %s", s.root.Name, root.Entity().Name)
	}

	preds, err := s.compiler.Compile(s.operations, joingraph.New(root))
	if err != nil {
		return nil, err
	}
	return compiler.Conjunction(preds), nil
}

// Apply compiles the filter against sel.Root and stores it in sel.Filter.
func (s *Specification) Apply(sel *query.Select) error {
	p, err := s.Predicate(sel.Root)
	if err != nil {
		return err
	}
	sel.Filter = p
	return nil
}
