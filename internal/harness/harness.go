package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/store"
	"github.com/roach88/specbuilder/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	dbPath string
	logger *slog.Logger
}

// Option configures a scenario run.
type Option func(*Harness)

// WithLogger sets the logger passed to the store and the specification
// builder. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithDatabase runs the scenario against a SQLite file instead of a fresh
// in-memory database. Seeded rows that already exist are kept, and
// execution ids are UUIDv7 so the execution log can span many runs.
func WithDatabase(path string) Option {
	return func(h *Harness) {
		if path != "" {
			h.dbPath = path
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
}

// Run executes a scenario and returns the result.
//
// By default each scenario runs in a fresh in-memory database with
// sequential execution ids, so results are reproducible.
//
// Execution flow:
// 1. Load the schema and open the database
// 2. Seed the fixture and the scenario rows
// 3. Build the specification and the page from bindings and request
// 4. Count and fetch the page
// 5. Evaluate assertions
//
// A failure while building the query is a scenario failure unless
// ExpectError names it. Infrastructure failures (schema, seeding, SQL)
// are returned as errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		dbPath: ":memory:",
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}

	sch, err := LoadSchema(scenario)
	if err != nil {
		return nil, err
	}

	storeOpts := []store.Option{store.WithLogger(h.logger)}
	if h.dbPath == ":memory:" {
		storeOpts = append(storeOpts, store.WithIDGenerator(testutil.NewSequenceIDGenerator("exec")))
	}
	st, err := store.Open(h.dbPath, sch, storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := seed(ctx, st, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed: %w", err)
	}

	before, err := st.Executions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read executions: %w", err)
	}

	result := NewResult()

	var sel *query.Select
	plan, err := NewPlan(sch, scenario, h.logger)
	if err == nil {
		sel, err = plan.Select()
	}
	if err != nil {
		result.BuildError = err.Error()
		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("build query: %v", err))
		case !strings.Contains(err.Error(), scenario.ExpectError):
			result.AddError(fmt.Sprintf("expected error containing %q, got %q", scenario.ExpectError, err.Error()))
		}
		return result, nil
	}
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected error containing %q, query built", scenario.ExpectError))
		return result, nil
	}

	page, err := st.FindPage(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	result.Total = page.TotalElements
	result.TotalPages = page.TotalPages()
	result.Rows = page.Content

	execs, err := st.Executions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read executions: %w", err)
	}
	for _, exec := range execs[len(before):] {
		result.AddStatement(exec)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// seed inserts the fixture (if requested) and the scenario rows.
func seed(ctx context.Context, st *store.Store, scenario *Scenario) error {
	var records []store.Record
	if scenario.Fixture {
		for _, r := range testutil.Records() {
			records = append(records, store.Record{Entity: r.Entity, Values: r.Values})
		}
	}
	for _, row := range scenario.Rows {
		records = append(records, store.Record{Entity: row.Entity, Values: row.Values})
	}
	if len(records) == 0 {
		return nil
	}
	return st.Seed(ctx, records)
}
