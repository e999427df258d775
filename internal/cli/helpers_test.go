package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const phoneScenario = `
name: phone_home
description: "Employees with a HOME phone containing 555"
root: Employee
fixture: true
bindings:
  - property: phoneNumber
    attribute: Phone.number
    path: [Employee.phones]
  - attribute: Phone.phoneType
    path: [Employee.phones]
sort_bindings:
  - attribute: Employee.name
request:
  operations:
    - {property: phoneNumber, operator: LIKE, value: "555"}
    - {property: phoneType, operator: EQ, value: HOME}
  size: 10
  sortFields:
    - property: name
assertions:
  - type: total
    count: 2
  - type: rows_order
    attribute: name
    values: [April, Doloritas]
`

const unboundScenario = `
name: unbound
description: "Filters on properties that are not bound"
root: Employee
fixture: true
bindings:
  - property: employeeBirthDate
    attribute: Employee.birthDate
request:
  operations:
    - {property: salary, operator: GT, value: 10}
    - {property: employeeBirthDate, operator: LT, value: "yesterday"}
  sortFields:
    - property: email
assertions:
  - type: total
    count: 0
`

const failingScenario = `
name: wrong_total
description: "Expects more employees than the fixture has"
root: Employee
fixture: true
request: {}
assertions:
  - type: total
    count: 99
`

// writeScenario writes a scenario file named name into dir.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// executeCommand runs the root command with args and returns stdout and
// stderr.
func executeCommand(args ...string) (string, string, error) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
