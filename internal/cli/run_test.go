package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Directory(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "phone.yaml", phoneScenario)
	writeScenario(t, dir, "notes.txt", "ignored")

	out, _, err := executeCommand("run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ phone_home (2 of 2 rows)")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "phone.yaml", phoneScenario)
	writeScenario(t, dir, "unbound.yaml", unboundScenario)
	writeScenario(t, dir, "wrong_total.yaml", failingScenario)

	out, _, err := executeCommand("run", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 of 3 scenario(s) failed")

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 2, resp.Data.Failed)

	byName := make(map[string]ScenarioResult)
	for _, sr := range resp.Data.Scenarios {
		byName[sr.Name] = sr
	}
	assert.True(t, byName["phone_home"].Pass)
	require.Len(t, byName["phone_home"].Statements, 2)
	assert.Equal(t, "exec-0001", byName["phone_home"].Statements[0].ID)
	assert.Contains(t, byName["unbound"].Errors[0], "build query")
	assert.Equal(t, int64(36), byName["wrong_total"].Total)
}

func TestRun_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "phone.yaml", phoneScenario)
	writeScenario(t, dir, "wrong_total.yaml", failingScenario)

	out, _, err := executeCommand("run", dir, "--filter", "pho*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "wrong_total")
}

func TestRun_NoScenarios(t *testing.T) {
	out, _, err := executeCommand("run", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestRun_MissingPath(t *testing.T) {
	_, _, err := executeCommand("run", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_Database(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "phone.yaml", phoneScenario)
	db := filepath.Join(dir, "specb.db")

	for i := 0; i < 2; i++ {
		out, _, err := executeCommand("run", path, "--db", db, "--verbose")
		require.NoError(t, err, "run %d", i)
		assert.Contains(t, out, "[count] SELECT COUNT(*)")
		assert.Contains(t, out, "[find] SELECT t0.id")
	}
}
