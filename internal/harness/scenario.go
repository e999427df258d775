package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a query scenario: a schema and its rows, the bindings
// a service would register, a client request, and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is a directory holding a CUE entity schema, relative to the
	// scenario file. Empty means the built-in Employee/Phone fixture schema.
	Schema string `yaml:"schema,omitempty"`

	// Root is the queried entity.
	Root string `yaml:"root"`

	// Fixture seeds the 36 fixture employees with their phones and social
	// security records. Requires the fixture schema or a compatible one.
	Fixture bool `yaml:"fixture,omitempty"`

	// Rows are inserted after the fixture, in order.
	Rows []RowStep `yaml:"rows,omitempty"`

	// Bindings map client filter properties to attributes.
	Bindings []BindingStep `yaml:"bindings"`

	// SortBindings map client sort properties to root attributes.
	SortBindings []BindingStep `yaml:"sort_bindings,omitempty"`

	// Request is the client page request, in the JSON request shape.
	Request map[string]any `yaml:"request"`

	// ExpectError makes the scenario pass only if building the query fails
	// with an error containing this text.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the result page.
	// Supported types: total, row_count, rows_order, rows_contain
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RowStep is one row to insert.
type RowStep struct {
	// Entity names the entity whose table receives the row.
	Entity string `yaml:"entity"`

	// Values are keyed by column name.
	Values map[string]any `yaml:"values"`
}

// BindingStep binds a client property to an attribute.
type BindingStep struct {
	// Property is the client-facing name. Defaults to the attribute name.
	Property string `yaml:"property,omitempty"`

	// Attribute is a qualified reference "Entity.attribute".
	Attribute string `yaml:"attribute"`

	// Path lists the relation steps from the root, as "Entity.relation"
	// references. Empty means the attribute lives on the root.
	Path []string `yaml:"path,omitempty"`
}

// Assertion validates the result page.
type Assertion struct {
	// Type specifies the assertion type:
	// - "total": Check the number of matching rows across all pages
	// - "row_count": Check the number of rows on the page
	// - "rows_order": Check the page's values of one attribute, in order
	// - "rows_contain": Check some row on the page matches Where
	Type string `yaml:"type"`

	// Count is the expected number (used by total and row_count).
	Count int `yaml:"count,omitempty"`

	// Attribute is the attribute name (used by rows_order).
	Attribute string `yaml:"attribute,omitempty"`

	// Values is the expected order (used by rows_order).
	Values []any `yaml:"values,omitempty"`

	// Where specifies attribute values (used by rows_contain).
	// Subset match - only specified attributes are validated.
	Where map[string]any `yaml:"where,omitempty"`
}

// Assertion type constants.
const (
	AssertTotal       = "total"
	AssertRowCount    = "row_count"
	AssertRowsOrder   = "rows_order"
	AssertRowsContain = "rows_contain"
)

// LoadScenario reads and parses a scenario YAML file. A relative Schema
// path is resolved against the scenario file's directory.
//
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}
	if scenario.Schema != "" {
		if _, err := os.Stat(scenario.Schema); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: schema directory not found: %s", scenario.Schema)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Root == "" {
		return fmt.Errorf("root is required")
	}

	if s.Request == nil {
		return fmt.Errorf("request is required (use {} for an empty request)")
	}

	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless expect_error is set")
	}

	for i, row := range s.Rows {
		if row.Entity == "" {
			return fmt.Errorf("rows[%d]: entity is required", i)
		}
		if len(row.Values) == 0 {
			return fmt.Errorf("rows[%d]: values are required", i)
		}
	}

	for i, b := range s.Bindings {
		if b.Attribute == "" {
			return fmt.Errorf("bindings[%d]: attribute is required", i)
		}
	}
	for i, b := range s.SortBindings {
		if b.Attribute == "" {
			return fmt.Errorf("sort_bindings[%d]: attribute is required", i)
		}
		if len(b.Path) > 0 {
			return fmt.Errorf("sort_bindings[%d]: sort bindings can not have a path", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTotal, AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertRowsOrder:
		if a.Attribute == "" {
			return fmt.Errorf("assertions[%d]: attribute is required for rows_order", index)
		}
	case AssertRowsContain:
		if len(a.Where) == 0 {
			return fmt.Errorf("assertions[%d]: where is required for rows_contain", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
