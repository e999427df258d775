package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/specbuilder/internal/paging"
	"github.com/roach88/specbuilder/internal/query"
)

// Row is one result row keyed by attribute name. Values have the Go type
// of the attribute (see schema.Type); NULL columns are nil.
type Row map[string]any

// ExecutionKind tells row queries from count queries in the execution log.
type ExecutionKind string

const (
	KindFind  ExecutionKind = "find"
	KindCount ExecutionKind = "count"
)

// Execution is one logged query execution.
type Execution struct {
	Seq    int64
	ID     string
	Kind   ExecutionKind
	Root   string // Root entity name
	Query  string
	Params []any
	Rows   int64 // Rows returned, or the count for KindCount
}

// Find runs sel and returns the root rows in page order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Find(ctx context.Context, sel *query.Select) ([]Row, error) {
	sqlText, params, err := s.compiler.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	exec := s.newExecution(KindFind, sel, sqlText, params)
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", exec.ID, err)
	}
	result, err := scanRows(rows, sel)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", exec.ID, err)
	}

	exec.Rows = int64(len(result))
	if err := s.finish(ctx, exec, start); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of rows sel matches, ignoring its page.
func (s *Store) Count(ctx context.Context, sel *query.Select) (int64, error) {
	sqlText, params, err := s.compiler.CompileCount(sel)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	exec := s.newExecution(KindCount, sel, sqlText, params)
	start := time.Now()

	var n int64
	if err := s.db.QueryRowContext(ctx, sqlText, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", exec.ID, err)
	}

	exec.Rows = n
	if err := s.finish(ctx, exec, start); err != nil {
		return 0, err
	}
	return n, nil
}

// FindPage runs sel and counts every match, so the page knows its totals.
func (s *Store) FindPage(ctx context.Context, sel *query.Select) (paging.Page[Row], error) {
	total, err := s.Count(ctx, sel)
	if err != nil {
		return paging.Page[Row]{}, err
	}
	content, err := s.Find(ctx, sel)
	if err != nil {
		return paging.Page[Row]{}, err
	}
	return paging.Page[Row]{
		Content:       content,
		Number:        sel.Page.Number,
		Size:          sel.Page.Size,
		TotalElements: total,
	}, nil
}

// Executions returns the execution log ordered by seq.
//
// Returns an empty slice (not nil) if nothing was executed.
func (s *Store) Executions(ctx context.Context) ([]Execution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, kind, root, query, params, row_count
		FROM specb_executions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	execs := []Execution{}
	for rows.Next() {
		var (
			exec   Execution
			kind   string
			params string
		)
		if err := rows.Scan(&exec.Seq, &exec.ID, &kind, &exec.Root, &exec.Query, &params, &exec.Rows); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		exec.Kind = ExecutionKind(kind)
		exec.Params, err = unmarshalParams(params)
		if err != nil {
			return nil, fmt.Errorf("execution %s: %w", exec.ID, err)
		}
		execs = append(execs, exec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate executions: %w", err)
	}
	return execs, nil
}

func (s *Store) newExecution(kind ExecutionKind, sel *query.Select, sqlText string, params []any) Execution {
	return Execution{
		ID:     s.ids.Generate(),
		Kind:   kind,
		Root:   sel.Root.Entity().Name,
		Query:  sqlText,
		Params: params,
	}
}

// finish logs exec and appends it to the execution log.
func (s *Store) finish(ctx context.Context, exec Execution, start time.Time) error {
	s.logger.Info("query executed",
		"execution_id", exec.ID,
		"kind", exec.Kind,
		"root", exec.Root,
		"rows", exec.Rows,
		"duration", time.Since(start))
	s.logger.Debug("query text", "execution_id", exec.ID, "sql", exec.Query, "params", exec.Params)

	return s.writeExecution(ctx, exec)
}

// scanRows reads every row of the root entity's columns and closes rows.
func scanRows(rows *sql.Rows, sel *query.Select) ([]Row, error) {
	defer rows.Close()

	attrs := sel.Root.Entity().Attributes
	raw := make([]any, len(attrs))
	dest := make([]any, len(attrs))
	for i := range raw {
		dest[i] = &raw[i]
	}

	result := []Row{}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(attrs))
		for i, attr := range attrs {
			v, err := decodeColumn(attr, raw[i])
			if err != nil {
				return nil, err
			}
			row[attr.Name] = v
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
