package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/specbuilder/internal/querysql"
)

// Statement is one compiled SQL statement with its parameters.
type Statement struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// CompileResult holds the statements a scenario's request compiles to.
type CompileResult struct {
	Scenario string    `json:"scenario"`
	Root     string    `json:"root"`
	Count    Statement `json:"count"`
	Find     Statement `json:"find"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <scenario.yaml>",
		Short: "Show the SQL a scenario's request compiles to",
		Long: `Compile the scenario's client request to SQL without executing it.

Prints the count statement and the page statement with their parameters.

Examples:
  specb compile ./scenarios/born_after_2000.yaml
  specb compile ./scenarios/books.yaml --schema ./schemas/library --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCompile(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	formatter.VerboseLog("Loading scenario %s", path)
	scenario, plan, err := loadPlan(path, opts, formatter.Logger())
	if err != nil {
		return outputCommandError(formatter, loadErrorCode(err), err)
	}

	sel, err := plan.Select()
	if err != nil {
		_ = formatter.Error(ErrCodeBuildFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "query could not be built", err)
	}

	compiler := querysql.NewSQLCompiler()
	countSQL, countParams, err := compiler.CompileCount(sel)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBuildFailed, err)
	}
	findSQL, findParams, err := compiler.Compile(sel)
	if err != nil {
		return outputCommandError(formatter, ErrCodeBuildFailed, err)
	}

	result := CompileResult{
		Scenario: scenario.Name,
		Root:     plan.Root.Name,
		Count:    Statement{SQL: countSQL, Params: nonNil(countParams)},
		Find:     Statement{SQL: findSQL, Params: nonNil(findParams)},
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "-- %s (%s)\n", result.Scenario, result.Root)
	for _, stmt := range []struct {
		label string
		s     Statement
	}{{"count", result.Count}, {"find", result.Find}} {
		params, err := json.Marshal(stmt.s.Params)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "-- %s\n%s;\n-- params: %s\n", stmt.label, stmt.s.SQL, params)
	}
	return nil
}

// outputCommandError reports a command-level failure and returns the
// matching exit error.
func outputCommandError(formatter *OutputFormatter, code string, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}

func nonNil(params []any) []any {
	if params == nil {
		return []any{}
	}
	return params
}
