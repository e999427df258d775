package operation

// Operator is the operator tag of an operation. The tag doubles as the
// discriminant that selects the operation variant when decoding.
type Operator string

const (
	Eq      Operator = "EQ"
	NotEq   Operator = "NOT_EQ"
	Gt      Operator = "GT"
	Ge      Operator = "GE"
	Lt      Operator = "LT"
	Le      Operator = "LE"
	Bt      Operator = "BT"
	In      Operator = "IN"
	NotIn   Operator = "NOT_IN"
	Null    Operator = "NULL"
	NotNull Operator = "NOT_NULL"
	True    Operator = "TRUE"
	False   Operator = "FALSE"
	Like    Operator = "LIKE"
	NotLike Operator = "NOT_LIKE"
)

// Operators lists every operator tag in declaration order.
var Operators = []Operator{
	Eq, NotEq, Gt, Ge, Lt, Le, Bt, In, NotIn, Null, NotNull, True, False, Like, NotLike,
}

// ArityN marks an operator that takes any number of operands.
const ArityN = -1

// Arity returns the fixed operand count of op: 0, 1, 2 or ArityN.
// Unknown operators report 0.
func (op Operator) Arity() int {
	switch op {
	case Eq, NotEq, Gt, Ge, Lt, Le, Like, NotLike:
		return 1
	case Bt:
		return 2
	case In, NotIn:
		return ArityN
	default:
		return 0
	}
}

// Valid reports whether op is one of Operators.
func (op Operator) Valid() bool {
	return contains(Operators, op)
}

// IsPattern reports whether op is a pattern-match operator.
func (op Operator) IsPattern() bool {
	return op == Like || op == NotLike
}

func (op Operator) String() string {
	return string(op)
}

// Allowed operator sets per variant.
var (
	noValueOperators     = []Operator{Null, NotNull, True, False}
	singleValueOperators = []Operator{Eq, NotEq, Gt, Ge, Lt, Le, Like, NotLike}
	multiValueOperators  = []Operator{In, NotIn}
	rangeValueOperators  = []Operator{Bt}
)

func contains(set []Operator, op Operator) bool {
	for _, o := range set {
		if o == op {
			return true
		}
	}
	return false
}

func clone(set []Operator) []Operator {
	out := make([]Operator, len(set))
	copy(out, set)
	return out
}
