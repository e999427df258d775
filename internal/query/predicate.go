package query

// Predicate is a boolean condition attachable to a query.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// CompareOp is a binary comparison operator.
type CompareOp string

const (
	OpEqual          CompareOp = "="
	OpNotEqual       CompareOp = "<>"
	OpGreater        CompareOp = ">"
	OpGreaterOrEqual CompareOp = ">="
	OpLess           CompareOp = "<"
	OpLessOrEqual    CompareOp = "<="
)

// Comparison is `<path> <op> <value>`.
type Comparison struct {
	Path  Path
	Op    CompareOp
	Value any
}

func (Comparison) predicateNode() {}

// Between is `<path> BETWEEN <low> AND <high>` (inclusive).
type Between struct {
	Path Path
	Low  any
	High any
}

func (Between) predicateNode() {}

// In is set membership `<path> IN (<values>)`. An empty set matches nothing.
type In struct {
	Path   Path
	Values []any
}

func (In) predicateNode() {}

// IsNull is `<path> IS NULL`, or `IS NOT NULL` when Negated.
type IsNull struct {
	Path    Path
	Negated bool
}

func (IsNull) predicateNode() {}

// Boolean tests a boolean attribute against Want.
type Boolean struct {
	Path Path
	Want bool
}

func (Boolean) predicateNode() {}

// Like is a pattern match `<path> LIKE <pattern>`.
type Like struct {
	Path    Path
	Pattern string
}

func (Like) predicateNode() {}

// Not is the logical negation of a predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// Conjunction is `p1 AND p2 AND ... AND pN`.
// Empty Predicates means "always true".
type Conjunction struct {
	Predicates []Predicate
}

func (Conjunction) predicateNode() {}

// IsAlwaysTrue reports whether c has no conditions.
func (c Conjunction) IsAlwaysTrue() bool {
	return len(c.Predicates) == 0
}

// Equal builds `path = value`.
func Equal(path Path, value any) Predicate {
	return Comparison{Path: path, Op: OpEqual, Value: value}
}

// NotEqual builds `path <> value`.
func NotEqual(path Path, value any) Predicate {
	return Comparison{Path: path, Op: OpNotEqual, Value: value}
}

// GreaterThan builds `path > value`.
func GreaterThan(path Path, value any) Predicate {
	return Comparison{Path: path, Op: OpGreater, Value: value}
}

// GreaterThanOrEqual builds `path >= value`.
func GreaterThanOrEqual(path Path, value any) Predicate {
	return Comparison{Path: path, Op: OpGreaterOrEqual, Value: value}
}

// LessThan builds `path < value`.
func LessThan(path Path, value any) Predicate {
	return Comparison{Path: path, Op: OpLess, Value: value}
}

// LessThanOrEqual builds `path <= value`.
func LessThanOrEqual(path Path, value any) Predicate {
	return Comparison{Path: path, Op: OpLessOrEqual, Value: value}
}

// InRange builds `path BETWEEN low AND high`.
func InRange(path Path, low, high any) Predicate {
	return Between{Path: path, Low: low, High: high}
}

// Member builds `path IN (values...)`.
func Member(path Path, values ...any) Predicate {
	return In{Path: path, Values: values}
}

// Null builds `path IS NULL`.
func Null(path Path) Predicate {
	return IsNull{Path: path}
}

// NotNull builds `path IS NOT NULL`.
func NotNull(path Path) Predicate {
	return IsNull{Path: path, Negated: true}
}

// True builds a test that path is true.
func True(path Path) Predicate {
	return Boolean{Path: path, Want: true}
}

// False builds a test that path is false.
func False(path Path) Predicate {
	return Boolean{Path: path, Want: false}
}

// Matches builds `path LIKE pattern`.
func Matches(path Path, pattern string) Predicate {
	return Like{Path: path, Pattern: pattern}
}

// Negate wraps p in a logical negation.
func Negate(p Predicate) Predicate {
	return Not{Predicate: p}
}

// And combines predicates by conjunction. And() is always true.
func And(predicates ...Predicate) Conjunction {
	return Conjunction{Predicates: predicates}
}
