package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/specbuilder/internal/binding"
	"github.com/roach88/specbuilder/internal/coerce"
	"github.com/roach88/specbuilder/internal/operation"
	"github.com/roach88/specbuilder/internal/operator"
)

// Diagnostic codes (E100-E199)
const (
	ErrNilCriteria         = "E100" // criteria missing
	ErrInvalidOperation    = "E101" // operation fails its validation contract
	ErrUnboundProperty     = "E102" // property has no filter binding
	ErrInvalidOperand      = "E103" // operand cannot be coerced to the attribute type
	ErrUnsupportedOperator = "E104" // operator has no predicate function
	ErrInvalidBinding      = "E105" // binding chain is not connected or too long
)

// Diagnostic is one problem found by Check.
type Diagnostic struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s: %s", d.Code, d.Field, d.Message)
}

// Check reports every problem in criteria against bindings without
// building predicates. Unlike Compile it does not stop at the first
// problem; an operation that fails validation is not checked further.
// A nil convert means coerce.Convert.
func Check(criteria *operation.Criteria, bindings binding.Lookuper, convert coerce.Func) []Diagnostic {
	if criteria == nil {
		return []Diagnostic{{Field: "criteria", Message: "criteria can not be null", Code: ErrNilCriteria}}
	}
	if convert == nil {
		convert = coerce.Convert
	}

	var diags []Diagnostic
	for i, op := range criteria.Operations {
		field := fmt.Sprintf("operations[%d]", i)
		if op == nil {
			diags = append(diags, Diagnostic{Field: field, Message: "operation can not be null", Code: ErrInvalidOperation})
			continue
		}

		if err := op.Validate(); err != nil {
			diags = append(diags, Diagnostic{Field: field, Message: reason(err), Code: ErrInvalidOperation})
			continue
		}

		h := op.Head()
		if _, ok := operator.Lookup(h.Operator); !ok {
			diags = append(diags, Diagnostic{
				Field:   field + ".operator",
				Message: fmt.Sprintf("no predicate for operator %s", h.Operator),
				Code:    ErrUnsupportedOperator,
			})
		}

		b, err := bindings.Lookup(h.Property)
		if err != nil {
			diags = append(diags, Diagnostic{Field: field + ".property", Message: err.Error(), Code: ErrUnboundProperty})
			continue
		}

		for j, v := range op.Operands() {
			if _, err := convert(v, b.Attribute.Type); err != nil {
				diags = append(diags, Diagnostic{
					Field:   fmt.Sprintf("%s.value[%d]", field, j),
					Message: err.Error(),
					Code:    ErrInvalidOperand,
				})
			}
		}
	}
	return diags
}

func reason(err error) string {
	var verr *operation.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}
