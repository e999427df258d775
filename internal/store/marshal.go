package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/specbuilder/internal/querysql"
	"github.com/roach88/specbuilder/internal/schema"
)

// marshalParams converts query parameters to JSON TEXT for the execution log.
func marshalParams(params []any) (string, error) {
	if params == nil {
		params = []any{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // LIKE patterns and text operands are kept verbatim
	if err := enc.Encode(params); err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalParams parses logged parameters. Numbers are json.Number to
// avoid float64 precision loss for large integers.
func unmarshalParams(data string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	var params []any
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	if params == nil {
		params = []any{}
	}
	return params, nil
}

// decodeColumn converts a scanned column to the Go type of attr.
func decodeColumn(attr schema.Attribute, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}

	switch attr.Type {
	case schema.TypeInt:
		if n, ok := raw.(int64); ok {
			return n, nil
		}
	case schema.TypeFloat:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case schema.TypeBool:
		switch b := raw.(type) {
		case int64:
			return b != 0, nil
		case bool:
			return b, nil
		}
	case schema.TypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case schema.TypeDate:
		if s, ok := raw.(string); ok {
			d, err := time.Parse(time.DateOnly, s)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", attr.ID(), err)
			}
			return d, nil
		}
	case schema.TypeTime:
		if s, ok := raw.(string); ok {
			ts, err := time.Parse(querysql.TimeLayout, s)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", attr.ID(), err)
			}
			return ts, nil
		}
	}
	return nil, fmt.Errorf("column %s: cannot decode %T as %s", attr.ID(), raw, attr.Type)
}
