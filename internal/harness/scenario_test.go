package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to a scenario file in a temp directory.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validScenario = `
name: test_scenario
description: "Test scenario for validation"
root: Employee
fixture: true
bindings:
  - property: employeeName
    attribute: Employee.name
sort_bindings:
  - attribute: Employee.birthDate
request:
  operations:
    - property: employeeName
      operator: LIKE
      value: an
  size: 5
  sortFields:
    - property: birthDate
      direction: DESC
assertions:
  - type: total
    count: 4
`

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario(writeScenario(t, validScenario))
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Employee", scenario.Root)
	assert.True(t, scenario.Fixture)
	assert.Empty(t, scenario.Schema)
	require.Len(t, scenario.Bindings, 1)
	assert.Equal(t, BindingStep{Property: "employeeName", Attribute: "Employee.name"}, scenario.Bindings[0])
	require.Len(t, scenario.SortBindings, 1)
	assert.Equal(t, "Employee.birthDate", scenario.SortBindings[0].Attribute)
	assert.Equal(t, 5, scenario.Request["size"])
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertTotal, scenario.Assertions[0].Type)
	assert.Equal(t, 4, scenario.Assertions[0].Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_SchemaRelativeToFile(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "library_books.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "schemas", "library"), scenario.Schema)
}

func TestLoadScenario_SchemaNotFound(t *testing.T) {
	content := `
name: test
description: "Test"
schema: missing
root: Book
request: {}
assertions:
  - type: total
    count: 0
`
	_, err := LoadScenario(writeScenario(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema directory not found")
}

func TestParseScenario_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "Missing name"
root: Employee
request: {}
assertions: [{type: total, count: 0}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: test
root: Employee
request: {}
assertions: [{type: total, count: 0}]
`,
			wantErr: "description is required",
		},
		{
			name: "missing root",
			content: `
name: test
description: "Test"
request: {}
assertions: [{type: total, count: 0}]
`,
			wantErr: "root is required",
		},
		{
			name: "missing request",
			content: `
name: test
description: "Test"
root: Employee
assertions: [{type: total, count: 0}]
`,
			wantErr: "request is required",
		},
		{
			name: "missing assertions",
			content: `
name: test
description: "Test"
root: Employee
request: {}
`,
			wantErr: "assertions list is required",
		},
		{
			name: "row without entity",
			content: `
name: test
description: "Test"
root: Employee
rows:
  - values: {id: 1}
request: {}
assertions: [{type: total, count: 0}]
`,
			wantErr: "rows[0]: entity is required",
		},
		{
			name: "row without values",
			content: `
name: test
description: "Test"
root: Employee
rows:
  - entity: Employee
request: {}
assertions: [{type: total, count: 0}]
`,
			wantErr: "rows[0]: values are required",
		},
		{
			name: "binding without attribute",
			content: `
name: test
description: "Test"
root: Employee
bindings:
  - property: employeeName
request: {}
assertions: [{type: total, count: 0}]
`,
			wantErr: "bindings[0]: attribute is required",
		},
		{
			name: "sort binding with path",
			content: `
name: test
description: "Test"
root: Employee
sort_bindings:
  - attribute: Phone.number
    path: [Employee.phones]
request: {}
assertions: [{type: total, count: 0}]
`,
			wantErr: "sort_bindings[0]: sort bindings can not have a path",
		},
		{
			name: "negative count",
			content: `
name: test
description: "Test"
root: Employee
request: {}
assertions: [{type: row_count, count: -1}]
`,
			wantErr: "count must be non-negative",
		},
		{
			name: "rows_order without attribute",
			content: `
name: test
description: "Test"
root: Employee
request: {}
assertions: [{type: rows_order, values: [a]}]
`,
			wantErr: "attribute is required for rows_order",
		},
		{
			name: "rows_contain without where",
			content: `
name: test
description: "Test"
root: Employee
request: {}
assertions: [{type: rows_contain}]
`,
			wantErr: "where is required for rows_contain",
		},
		{
			name: "unknown assertion type",
			content: `
name: test
description: "Test"
root: Employee
request: {}
assertions: [{type: final_state}]
`,
			wantErr: `unknown assertion type "final_state"`,
		},
		{
			name: "unknown field",
			content: `
name: test
description: "Test"
root: Employee
request: {}
flow_token: abc
assertions: [{type: total, count: 0}]
`,
			wantErr: "field flow_token not found",
		},
		{
			name:    "malformed yaml",
			content: "name: [unclosed",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseScenario_ExpectErrorWithoutAssertions(t *testing.T) {
	content := `
name: test
description: "Test"
root: Employee
request: {}
expect_error: "must be bound"
`
	scenario, err := ParseScenario([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "must be bound", scenario.ExpectError)
	assert.Empty(t, scenario.Assertions)
}

func TestParseScenario_ZeroCountAllowed(t *testing.T) {
	content := `
name: test
description: "Test"
root: Employee
request: {}
assertions: [{type: total, count: 0}]
`
	scenario, err := ParseScenario([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, 0, scenario.Assertions[0].Count)
}

func TestAssertionConstants(t *testing.T) {
	assert.Equal(t, "total", AssertTotal)
	assert.Equal(t, "row_count", AssertRowCount)
	assert.Equal(t, "rows_order", AssertRowsOrder)
	assert.Equal(t, "rows_contain", AssertRowsContain)
}

func TestLoadExampleScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			assert.NoError(t, err)
		})
	}
}
