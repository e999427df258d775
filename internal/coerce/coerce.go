// Package coerce converts loosely typed operand values to the Go value of
// an attribute's declared type.
//
// Operands arrive from decoded payloads (json.Number, string, bool, []any
// elements) or from Go callers (int, float64, time.Time). Their element
// type is only known once the operation is matched to its bound attribute,
// so conversion runs per operation at compile time.
//
// Convert holds no state and is safe for concurrent use.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/specbuilder/internal/schema"
)

// Func converts raw to the Go value for t.
type Func func(raw any, t schema.Type) (any, error)

// Date layouts accepted for TypeDate, tried in order.
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	time.RFC3339Nano,
}

// Error reports a value that cannot be converted.
type Error struct {
	Value  any
	Target schema.Type
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to %s: %s", e.Value, e.Value, e.Target, e.Reason)
}

func fail(raw any, t schema.Type, format string, args ...any) *Error {
	return &Error{Value: raw, Target: t, Reason: fmt.Sprintf(format, args...)}
}

// Convert is the default Func.
//
//	string  any scalar, formatted; text is NFC-normalized
//	int     integers, integral floats, numeric strings -> int64
//	float   numbers, numeric strings -> float64
//	bool    bools, "true"/"false" -> bool
//	date    time.Time or "2006-01-02" / "2006/01/02" -> UTC midnight
//	time    time.Time or RFC 3339 text -> time.Time
//
// A nil raw value is returned unchanged.
func Convert(raw any, t schema.Type) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch t {
	case schema.TypeString:
		return toString(raw)
	case schema.TypeInt:
		return toInt(raw)
	case schema.TypeFloat:
		return toFloat(raw)
	case schema.TypeBool:
		return toBool(raw)
	case schema.TypeDate:
		return toDate(raw)
	case schema.TypeTime:
		return toTime(raw)
	default:
		return nil, fail(raw, t, "unsupported target type")
	}
}

// All converts every value with f, preserving order.
func All(f Func, values []any, t schema.Type) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		c, err := f(v, t)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func toString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return norm.NFC.String(v), nil
	case json.Number:
		return v.String(), nil
	case fmt.Stringer:
		return norm.NFC.String(v.String()), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	default:
		return nil, fail(raw, schema.TypeString, "not a scalar")
	}
}

func toInt(raw any) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return toInt(uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fail(raw, schema.TypeInt, "overflows int64")
		}
		return int64(v), nil
	case float32:
		return toInt(float64(v))
	case float64:
		return toIntFromFloat(raw, v)
	case json.Number:
		return parseInt(raw, string(v))
	case string:
		return parseInt(raw, strings.TrimSpace(v))
	default:
		return nil, fail(raw, schema.TypeInt, "not a number")
	}
}

func parseInt(raw any, s string) (any, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// "18.0" is integral
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fail(raw, schema.TypeInt, "not a number")
	}
	return toIntFromFloat(raw, f)
}

func toIntFromFloat(raw any, f float64) (any, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fail(raw, schema.TypeInt, "not an integer")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fail(raw, schema.TypeInt, "overflows int64")
	}
	return int64(f), nil
}

func toFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fail(raw, schema.TypeFloat, "not a number")
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fail(raw, schema.TypeFloat, "not a number")
		}
		return f, nil
	default:
		return nil, fail(raw, schema.TypeFloat, "not a number")
	}
}

func toBool(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fail(raw, schema.TypeBool, "not a boolean")
		}
		return b, nil
	default:
		return nil, fail(raw, schema.TypeBool, "not a boolean")
	}
}

func toDate(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		y, m, d := v.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				y, m, d := ts.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
			}
		}
		return nil, fail(raw, schema.TypeDate, "want YYYY-MM-DD")
	default:
		return nil, fail(raw, schema.TypeDate, "not a date")
	}
}

func toTime(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
		if err != nil {
			return nil, fail(raw, schema.TypeTime, "want RFC 3339")
		}
		return ts, nil
	default:
		return nil, fail(raw, schema.TypeTime, "not a timestamp")
	}
}
