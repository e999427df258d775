package operation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireOperation is the payload shape shared by every variant.
type wireOperation struct {
	Property string          `json:"property"`
	Operator Operator        `json:"operator"`
	Value    json.RawMessage `json:"value"`
}

// Decode decodes one operation object, selecting the variant from its
// operator tag:
//
//	{"property": "name", "operator": "EQ", "value": "Alice"}
//	{"property": "id", "operator": "IN", "value": [1, 2, 3]}
//	{"property": "age", "operator": "BT", "value": {"low": 18, "high": 65}}
//	{"property": "email", "operator": "NOT_NULL"}
//
// Numbers decode as json.Number; value coercion converts them once the
// bound attribute's type is known. Decode does not validate operands.
func Decode(data []byte) (Operation, error) {
	var w wireOperation
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: decode operation: %v", ErrInvalidArgument, err)
	}

	h := Header{Property: w.Property, Operator: w.Operator}
	switch {
	case h.Operator == "":
		return nil, invalid(h, "operator can not be null")
	case contains(noValueOperators, h.Operator):
		return &NoValue{Header: h}, nil
	case contains(singleValueOperators, h.Operator):
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, invalid(h, "decode value: %v", err)
		}
		return &SingleValue{Header: h, Value: v}, nil
	case contains(multiValueOperators, h.Operator):
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, invalid(h, "decode value: %v", err)
		}
		if v == nil {
			return &MultiValue{Header: h}, nil
		}
		values, ok := v.([]any)
		if !ok {
			return nil, invalid(h, "value must be an array, got %T", v)
		}
		return &MultiValue{Header: h, Values: values}, nil
	case contains(rangeValueOperators, h.Operator):
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, invalid(h, "decode value: %v", err)
		}
		if v == nil {
			return &RangeValue{Header: h}, nil
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, invalid(h, "value must be an object with low and high, got %T", v)
		}
		return &RangeValue{Header: h, Value: &Range{Low: obj["low"], High: obj["high"]}}, nil
	default:
		return nil, invalid(h, "unknown operator %s", h.Operator)
	}
}

// decodeValue decodes a raw JSON value preserving numbers as json.Number.
// A missing or null value decodes to nil.
func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalJSON decodes `{"operations": [...]}`.
func (c *Criteria) UnmarshalJSON(data []byte) error {
	var wire struct {
		Operations []json.RawMessage `json:"operations"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: decode criteria: %v", ErrInvalidArgument, err)
	}

	ops := make([]Operation, 0, len(wire.Operations))
	for i, raw := range wire.Operations {
		op, err := Decode(raw)
		if err != nil {
			return &IndexedError{Index: i, Err: err}
		}
		ops = append(ops, op)
	}
	c.Operations = ops
	return nil
}

// MarshalJSON encodes `{"operations": [...]}` in the Decode shape.
func (c Criteria) MarshalJSON() ([]byte, error) {
	ops := c.Operations
	if ops == nil {
		ops = []Operation{}
	}
	return json.Marshal(struct {
		Operations []Operation `json:"operations"`
	}{Operations: ops})
}
