package operation

// Operation is one filter criterion: a property, an operator tag and the
// operand(s) shaped by the variant.
//
// This is a sealed interface - only the variants in this package implement
// it. Consumers switch on the concrete type:
//
//	switch op := o.(type) {
//	case *NoValue:
//	case *SingleValue:
//	case *MultiValue:
//	case *RangeValue:
//	}
type Operation interface {
	// Head returns the property and operator tag.
	Head() Header

	// AllowedOperators returns the operator set accepted by the variant.
	AllowedOperators() []Operator

	// Operands returns the raw operands in arity order: none for NoValue,
	// one for SingleValue, (low, high) for RangeValue, N for MultiValue.
	Operands() []any

	// Validate checks the property, the operator, operator membership and
	// then the variant's operand shape, in that order.
	Validate() error

	operationNode() // Marker method - seals interface to this package
}

// Header carries the fields common to every variant.
// An empty string stands for a missing (null) value.
type Header struct {
	Property string   `json:"property"`
	Operator Operator `json:"operator"`
}

// Head returns the header itself; embedded into every variant.
func (h Header) Head() Header { return h }

// validate runs the checks shared by every variant.
func (h Header) validate(allowed []Operator) error {
	if h.Property == "" {
		return invalid(h, "property can not be null")
	}
	if h.Operator == "" {
		return invalid(h, "operator can not be null")
	}
	if !contains(allowed, h.Operator) {
		return invalid(h, "illegal operator %s", h.Operator)
	}
	return nil
}

// NoValue is an operation without operands (NULL, NOT_NULL, TRUE, FALSE).
type NoValue struct {
	Header
}

// NewNoValue creates a NoValue operation.
func NewNoValue(property string, op Operator) *NoValue {
	return &NoValue{Header: Header{Property: property, Operator: op}}
}

func (*NoValue) operationNode() {}

func (o *NoValue) AllowedOperators() []Operator { return clone(noValueOperators) }

func (o *NoValue) Operands() []any { return []any{} }

func (o *NoValue) Validate() error {
	return o.validate(noValueOperators)
}

// SingleValue is a comparison against one operand
// (EQ, NOT_EQ, GT, GE, LT, LE, LIKE, NOT_LIKE).
type SingleValue struct {
	Header
	Value any `json:"value"`
}

// NewSingleValue creates a SingleValue operation.
func NewSingleValue(property string, op Operator, value any) *SingleValue {
	return &SingleValue{Header: Header{Property: property, Operator: op}, Value: value}
}

func (*SingleValue) operationNode() {}

func (o *SingleValue) AllowedOperators() []Operator { return clone(singleValueOperators) }

func (o *SingleValue) Operands() []any { return []any{o.Value} }

func (o *SingleValue) Validate() error {
	if err := o.validate(singleValueOperators); err != nil {
		return err
	}
	if o.Value == nil {
		return invalid(o.Header, "value can not be null")
	}
	if o.Operator.IsPattern() {
		if _, ok := o.Value.(string); !ok {
			return invalid(o.Header, "operator %s requires a textual value, got %T", o.Operator, o.Value)
		}
	}
	return nil
}

// MultiValue is a set-membership test (IN, NOT_IN).
type MultiValue struct {
	Header
	Values []any `json:"value"`
}

// NewMultiValue creates a MultiValue operation.
func NewMultiValue(property string, op Operator, values ...any) *MultiValue {
	if values == nil {
		values = []any{}
	}
	return &MultiValue{Header: Header{Property: property, Operator: op}, Values: values}
}

func (*MultiValue) operationNode() {}

func (o *MultiValue) AllowedOperators() []Operator { return clone(multiValueOperators) }

func (o *MultiValue) Operands() []any {
	out := make([]any, len(o.Values))
	copy(out, o.Values)
	return out
}

func (o *MultiValue) Validate() error {
	if err := o.validate(multiValueOperators); err != nil {
		return err
	}
	if o.Values == nil {
		return invalid(o.Header, "values can not be null")
	}
	return nil
}

// Range is an inclusive (low, high) operand pair.
type Range struct {
	Low  any `json:"low"`
	High any `json:"high"`
}

// RangeValue is a range test (BT).
type RangeValue struct {
	Header
	Value *Range `json:"value"`
}

// NewRangeValue creates a RangeValue operation.
func NewRangeValue(property string, op Operator, low, high any) *RangeValue {
	return &RangeValue{
		Header: Header{Property: property, Operator: op},
		Value:  &Range{Low: low, High: high},
	}
}

func (*RangeValue) operationNode() {}

func (o *RangeValue) AllowedOperators() []Operator { return clone(rangeValueOperators) }

func (o *RangeValue) Operands() []any {
	if o.Value == nil {
		return []any{nil, nil}
	}
	return []any{o.Value.Low, o.Value.High}
}

func (o *RangeValue) Validate() error {
	if err := o.validate(rangeValueOperators); err != nil {
		return err
	}
	if o.Value == nil {
		return invalid(o.Header, "range can not be null")
	}
	if o.Value.Low == nil || o.Value.High == nil {
		return invalid(o.Header, "range requires both low and high")
	}
	return nil
}

// CompoundOr groups operations under a disjunction. It is not implemented:
// it accepts no operator, so Validate always fails, and it has no operands.
type CompoundOr struct {
	Header
	Operations []Operation
}

func (*CompoundOr) operationNode() {}

func (o *CompoundOr) AllowedOperators() []Operator { return nil }

func (o *CompoundOr) Operands() []any { return []any{} }

// Validate always fails: the allowed set is empty.
func (o *CompoundOr) Validate() error {
	return o.validate(nil)
}

// Criteria is the ordered sequence of operations for one compile pass.
type Criteria struct {
	Operations []Operation
}

// NewCriteria creates criteria from operations.
func NewCriteria(ops ...Operation) *Criteria {
	return &Criteria{Operations: ops}
}

// Validate validates every operation in order and stops at the first
// failure. The returned error identifies the failing index.
func (c *Criteria) Validate() error {
	for i, op := range c.Operations {
		if op == nil {
			return &IndexedError{Index: i, Err: &ValidationError{Reason: "operation can not be null"}}
		}
		if err := op.Validate(); err != nil {
			return &IndexedError{Index: i, Err: err}
		}
	}
	return nil
}
