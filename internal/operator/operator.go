// Package operator maps operator tags to predicate constructors.
//
// Every entry is a Func built from the query package's primitives. Not
// composes any Func with logical negation, which is how NOT_IN and
// NOT_LIKE are defined:
//
//	NotIn   = Not(In())
//	NotLike = Not(Like())
//
// Funcs assume the operand count already matches the operator's arity;
// operation validation guarantees this before compilation.
package operator

import (
	"fmt"

	"github.com/roach88/specbuilder/internal/operation"
	"github.com/roach88/specbuilder/internal/query"
)

// Func turns a typed path and coerced operands into a predicate.
type Func func(path query.Path, values []any) query.Predicate

// Not returns a Func producing the logical negation of f's predicate.
func Not(f Func) Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.Negate(f(path, values))
	}
}

func Eq() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.Equal(path, values[0])
	}
}

func NotEq() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.NotEqual(path, values[0])
	}
}

func Gt() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.GreaterThan(path, values[0])
	}
}

func Ge() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.GreaterThanOrEqual(path, values[0])
	}
}

func Lt() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.LessThan(path, values[0])
	}
}

func Le() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.LessThanOrEqual(path, values[0])
	}
}

// Between expects (low, high).
func Between() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.InRange(path, values[0], values[1])
	}
}

func In() Func {
	return func(path query.Path, values []any) query.Predicate {
		members := make([]any, len(values))
		copy(members, values)
		return query.Member(path, members...)
	}
}

func IsNull() Func {
	return func(path query.Path, _ []any) query.Predicate {
		return query.Null(path)
	}
}

func IsNotNull() Func {
	return func(path query.Path, _ []any) query.Predicate {
		return query.NotNull(path)
	}
}

func IsTrue() Func {
	return func(path query.Path, _ []any) query.Predicate {
		return query.True(path)
	}
}

func IsFalse() Func {
	return func(path query.Path, _ []any) query.Predicate {
		return query.False(path)
	}
}

// Like matches values containing the operand: the pattern is "%operand%".
func Like() Func {
	return func(path query.Path, values []any) query.Predicate {
		return query.Matches(path, Contains(values[0]))
	}
}

// Contains returns the LIKE pattern matching any text containing v.
func Contains(v any) string {
	return fmt.Sprintf("%%%v%%", v)
}

// Table maps every operator tag to its Func.
var Table = map[operation.Operator]Func{
	operation.Eq:      Eq(),
	operation.NotEq:   NotEq(),
	operation.Gt:      Gt(),
	operation.Ge:      Ge(),
	operation.Lt:      Lt(),
	operation.Le:      Le(),
	operation.Bt:      Between(),
	operation.In:      In(),
	operation.NotIn:   Not(In()),
	operation.Null:    IsNull(),
	operation.NotNull: IsNotNull(),
	operation.True:    IsTrue(),
	operation.False:   IsFalse(),
	operation.Like:    Like(),
	operation.NotLike: Not(Like()),
}

// Lookup returns the Func for op.
func Lookup(op operation.Operator) (Func, bool) {
	f, ok := Table[op]
	return f, ok
}
