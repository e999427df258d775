package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/specbuilder/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Scenario string                `json:"scenario"`
	Valid    bool                  `json:"valid"`
	Errors   []compiler.Diagnostic `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario's criteria without building the query",
		Long: `Check the scenario's bindings, criteria and page request.

Reports every problem instead of stopping at the first: invalid operations,
unbound properties, operands that do not fit the attribute type, broken
binding chains and unusable sort or page requests.

Exit codes:
  0 - Criteria are valid
  1 - One or more problems found
  2 - Command error (missing scenario, unreadable schema, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	scenario, plan, err := loadPlan(path, opts, formatter.Logger())
	if err != nil {
		return outputCommandError(formatter, loadErrorCode(err), err)
	}

	formatter.VerboseLog("Checking %d operation(s) of %s", len(plan.Request.Criteria.Operations), scenario.Name)
	diags := plan.Check()

	if len(diags) > 0 {
		return outputValidationErrors(formatter, scenario.Name, diags)
	}
	return outputValidateSuccess(formatter, scenario.Name)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, name string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Scenario: name, Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s: criteria valid\n", name)
	return nil
}

// outputValidationErrors outputs every diagnostic.
func outputValidationErrors(formatter *OutputFormatter, name string, diags []compiler.Diagnostic) error {
	if formatter.Format == "json" {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Scenario: name, Valid: false, Errors: diags},
			Error: &CLIError{
				Code:    diags[0].Code,
				Message: diags[0].Message,
			},
		})
		if err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(diags)))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s: validation failed\n\n", name)
	for _, d := range diags {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", d.Code, d.Field, d.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(diags)))
}
