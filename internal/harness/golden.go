package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures what a scenario executed and returned.
// Execution ids are sequential, so snapshots are deterministic.
type Snapshot struct {
	ScenarioName string      `json:"scenario_name"`
	Statements   []Statement `json:"statements"`
	Total        int64       `json:"total"`
	TotalPages   int         `json:"total_pages"`
	Rows         []any       `json:"rows"`
	BuildError   string      `json:"build_error,omitempty"`
}

// newSnapshot builds the snapshot of result. Row values are normalized
// so dates render as plain dates.
func newSnapshot(name string, result *Result) Snapshot {
	rows := make([]any, len(result.Rows))
	for i, row := range result.Rows {
		m := make(map[string]string, len(row))
		for k, v := range row {
			m[k] = normalize(v)
		}
		rows[i] = m
	}
	return Snapshot{
		ScenarioName: name,
		Statements:   result.Statements,
		Total:        result.Total,
		TotalPages:   result.TotalPages,
		Rows:         rows,
		BuildError:   result.BuildError,
	}
}

// MarshalSnapshot renders a snapshot as indented JSON with a trailing
// newline. Map keys are sorted by encoding/json.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(newSnapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
