package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/specbuilder/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string // SQLite file; empty runs each scenario in memory
	Filter   string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name       string              `json:"name"`
	Pass       bool                `json:"pass"`
	Total      int64               `json:"total"`
	Rows       int                 `json:"rows"`
	Statements []harness.Statement `json:"statements,omitempty"`
	Errors     []string            `json:"errors,omitempty"`
}

// RunResult holds the overall run result.
type RunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml|scenarios-dir>",
		Short: "Run scenarios against SQLite",
		Long: `Seed, build, count and fetch every scenario and check its assertions.

Each scenario runs in a fresh in-memory database unless --db names a
SQLite file, in which case rows and the execution log persist.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  specb run ./scenarios
  specb run ./scenarios --filter "born_*"
  specb run ./scenarios/books.yaml --db ./specb.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default: in-memory per scenario)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runScenarios(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	files, err := findScenarioFiles(path, opts.Filter)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err)
	}

	result := RunResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	if len(files) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	for _, file := range files {
		sr := runScenario(opts, file, formatter)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputRunText(formatter, result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}

// runScenario executes a single scenario. Load and execution errors are
// reported as a failed scenario so the remaining scenarios still run.
func runScenario(opts *RunOptions, file string, formatter *OutputFormatter) ScenarioResult {
	scenario, err := loadScenario(file, opts.Schema)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{err.Error()},
		}
	}

	formatter.VerboseLog("Running %s", scenario.Name)
	res, err := harness.Run(scenario,
		harness.WithLogger(formatter.Logger()),
		harness.WithDatabase(opts.Database))
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	return ScenarioResult{
		Name:       scenario.Name,
		Pass:       res.Pass,
		Total:      res.Total,
		Rows:       len(res.Rows),
		Statements: res.Statements,
		Errors:     res.Errors,
	}
}

func outputRunText(formatter *OutputFormatter, result RunResult) {
	w := formatter.Writer
	for _, sr := range result.Scenarios {
		if sr.Pass {
			fmt.Fprintf(w, "✓ %s (%d of %d rows)\n", sr.Name, sr.Rows, sr.Total)
		} else {
			fmt.Fprintf(w, "✗ %s\n", sr.Name)
			for _, e := range sr.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		if formatter.Verbose {
			for _, stmt := range sr.Statements {
				fmt.Fprintf(w, "  [%s] %s %v\n", stmt.Kind, stmt.Query, stmt.Params)
			}
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
}
