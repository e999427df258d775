package harness

import (
	"github.com/roach88/specbuilder/internal/store"
)

// Statement is one executed statement, taken from the store's execution log.
type Statement struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Query  string `json:"query"`
	Params []any  `json:"params"`
	Rows   int64  `json:"rows"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every assertion holds (or the expected error occurred).
	Pass bool `json:"pass"`

	// Statements are the executed statements in order: count, then find.
	Statements []Statement `json:"statements"`

	// Total is the number of matching rows across all pages.
	Total int64 `json:"total"`

	// TotalPages is the number of pages at the requested size.
	TotalPages int `json:"total_pages"`

	// Rows is the requested page.
	Rows []store.Row `json:"rows"`

	// BuildError is the error raised while building the query, if any.
	BuildError string `json:"build_error,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Statements: []Statement{},
		Rows:       []store.Row{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStatement adds a logged execution to the result.
func (r *Result) AddStatement(exec store.Execution) {
	r.Statements = append(r.Statements, Statement{
		ID:     exec.ID,
		Kind:   string(exec.Kind),
		Query:  exec.Query,
		Params: exec.Params,
		Rows:   exec.Rows,
	})
}
