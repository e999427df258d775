package compiler

import (
	"fmt"
	"log/slog"

	"github.com/roach88/specbuilder/internal/binding"
	"github.com/roach88/specbuilder/internal/coerce"
	"github.com/roach88/specbuilder/internal/joingraph"
	"github.com/roach88/specbuilder/internal/operation"
	"github.com/roach88/specbuilder/internal/operator"
	"github.com/roach88/specbuilder/internal/query"
)

// Compiler turns validated operations into predicates.
//
// For every operation, in order:
//
//  1. look up the binding for the property (unbound = *binding.LookupError)
//  2. resolve the binding's join path through the join graph
//  3. coerce each operand to the attribute's declared type
//  4. apply the operator's Func to the typed path and coerced operands
//
// A Compiler holds no per-compile state; the join graph passed to Compile
// carries the joins of one compile.
type Compiler struct {
	bindings  binding.Lookuper
	convert   coerce.Func
	operators map[operation.Operator]operator.Func
	logger    *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithConverter replaces coerce.Convert.
func WithConverter(f coerce.Func) Option {
	return func(c *Compiler) {
		if f != nil {
			c.convert = f
		}
	}
}

// WithOperators replaces the operator table.
func WithOperators(table map[operation.Operator]operator.Func) Option {
	return func(c *Compiler) {
		if table != nil {
			c.operators = table
		}
	}
}

// WithLogger sets the logger. Compiled operations are logged at Debug.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Compiler over bindings.
func New(bindings binding.Lookuper, opts ...Option) *Compiler {
	c := &Compiler{
		bindings:  bindings,
		convert:   coerce.Convert,
		operators: operator.Table,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles ops against graph, returning one predicate per
// operation. The first failure aborts the compile; its error identifies
// the failing index with *operation.IndexedError.
func (c *Compiler) Compile(ops []operation.Operation, graph *joingraph.Graph) ([]query.Predicate, error) {
	preds := make([]query.Predicate, 0, len(ops))
	for i, op := range ops {
		p, err := c.compileOne(op, graph)
		if err != nil {
			return nil, &operation.IndexedError{Index: i, Err: err}
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func (c *Compiler) compileOne(op operation.Operation, graph *joingraph.Graph) (query.Predicate, error) {
	if op == nil {
		return nil, &operation.ValidationError{Reason: "operation can not be null"}
	}
	h := op.Head()

	b, err := c.bindings.Lookup(h.Property)
	if err != nil {
		return nil, err
	}

	from, err := graph.Resolve(b.Path)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", h.Property, err)
	}
	path, err := from.Get(b.Attribute.Name)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", h.Property, err)
	}

	values, err := coerce.All(c.convert, op.Operands(), b.Attribute.Type)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", h.Property, err)
	}

	f, ok := c.operators[h.Operator]
	if !ok {
		return nil, &operation.ValidationError{
			Property: h.Property,
			Operator: h.Operator,
			Reason:   "no predicate for operator",
		}
	}

	c.logger.Debug("operation compiled",
		"property", h.Property,
		"operator", h.Operator,
		"attribute", b.Attribute.ID(),
		"source", from.Alias(),
		"operands", len(values))

	return f(path, values), nil
}

// Compile compiles ops with the default operator table. A nil convert
// means coerce.Convert.
func Compile(ops []operation.Operation, bindings binding.Lookuper, graph *joingraph.Graph, convert coerce.Func) ([]query.Predicate, error) {
	return New(bindings, WithConverter(convert)).Compile(ops, graph)
}

// Conjunction combines predicates into one. No predicates yields the
// always-true conjunction, never a nil predicate.
func Conjunction(preds []query.Predicate) query.Conjunction {
	if len(preds) == 0 {
		return query.And()
	}
	return query.And(preds...)
}
