package harness

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/specbuilder/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes the page so a failure can be debugged from the message.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Rows     []store.Row // Page content for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Rows) > 0 {
		fmt.Fprintf(&buf, "\nPage:\n")
		for i, row := range e.Rows {
			fmt.Fprintf(&buf, "  [%d] %v\n", i+1, row)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTotal:
		return assertTotal(result, a)
	case AssertRowCount:
		return assertRowCount(result, a)
	case AssertRowsOrder:
		return assertRowsOrder(result, a)
	case AssertRowsContain:
		return assertRowsContain(result, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertTotal(result *Result, a Assertion) error {
	if result.Total == int64(a.Count) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTotal,
		Expected: fmt.Sprintf("%d matching rows", a.Count),
		Actual:   fmt.Sprintf("%d matching rows", result.Total),
	}
}

func assertRowCount(result *Result, a Assertion) error {
	if len(result.Rows) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRowCount,
		Expected: fmt.Sprintf("%d rows on the page", a.Count),
		Actual:   fmt.Sprintf("%d rows on the page", len(result.Rows)),
		Rows:     result.Rows,
	}
}

// assertRowsOrder checks the page's values of one attribute, in order.
// The page must hold exactly the listed values.
func assertRowsOrder(result *Result, a Assertion) error {
	actual := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		actual[i] = normalize(row[a.Attribute])
	}
	expected := make([]string, len(a.Values))
	for i, v := range a.Values {
		expected[i] = normalize(v)
	}

	if equalStrings(actual, expected) {
		return nil
	}
	return &AssertionError{
		Type:     AssertRowsOrder,
		Expected: fmt.Sprintf("%s in order %v", a.Attribute, expected),
		Actual:   fmt.Sprintf("%v", actual),
		Rows:     result.Rows,
	}
}

// assertRowsContain checks that some row on the page matches every
// attribute in Where.
func assertRowsContain(result *Result, a Assertion) error {
	for _, row := range result.Rows {
		if matchRow(row, a.Where) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertRowsContain,
		Expected: fmt.Sprintf("a row matching %v", a.Where),
		Actual:   "no matching row on the page",
		Rows:     result.Rows,
	}
}

// matchRow checks if row contains all key-value pairs from where.
func matchRow(row store.Row, where map[string]any) bool {
	for key, want := range where {
		got, ok := row[key]
		if !ok || normalize(got) != normalize(want) {
			return false
		}
	}
	return true
}

// normalize renders a row or YAML value so both sides compare equal when
// they denote the same value: numbers of any width, dates at midnight as
// plain dates.
func normalize(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		if val.Equal(val.Truncate(24*time.Hour)) && val.Location() == time.UTC {
			return val.Format(time.DateOnly)
		}
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
