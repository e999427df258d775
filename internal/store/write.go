package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/specbuilder/internal/querysql"
	"github.com/roach88/specbuilder/internal/schema"
)

// Insert inserts one row into the table of entity.
//
// Values are keyed by column name and may use any attribute column or join
// column of the entity. Attribute values are stored in their text or
// numeric form (see querysql.Param). Uses ON CONFLICT DO NOTHING for
// idempotency - a row whose primary key exists is silently ignored.
func (s *Store) Insert(ctx context.Context, entity string, values map[string]any) error {
	e, ok := s.schema.Entity(entity)
	if !ok {
		return fmt.Errorf("insert: unknown entity %q", entity)
	}
	cols, args, err := s.rowArgs(e, values)
	if err != nil {
		return fmt.Errorf("insert %s: %w", entity, err)
	}

	if _, err := s.db.ExecContext(ctx, insertQuery(e.Table, cols), args...); err != nil {
		return fmt.Errorf("insert %s: %w", entity, err)
	}
	return nil
}

// Record is a row destined for the table of Entity.
type Record struct {
	Entity string
	Values map[string]any
}

// Seed inserts records in order inside one transaction. Records referencing
// other rows must come after them.
func (s *Store) Seed(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	for i, r := range records {
		e, ok := s.schema.Entity(r.Entity)
		if !ok {
			return fmt.Errorf("seed record %d: unknown entity %q", i, r.Entity)
		}
		cols, args, err := s.rowArgs(e, r.Values)
		if err != nil {
			return fmt.Errorf("seed record %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery(e.Table, cols), args...); err != nil {
			return fmt.Errorf("seed record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	s.logger.Debug("store seeded", "records", len(records))
	return nil
}

func insertQuery(table string, cols []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		table, strings.Join(cols, ", "), marks)
}

// rowArgs validates values against the columns of e and returns the
// columns (sorted for deterministic SQL) with their parameters.
func (s *Store) rowArgs(e schema.Entity, values map[string]any) ([]string, []any, error) {
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("no values")
	}
	attrs := make(map[string]schema.Attribute, len(e.Attributes))
	for _, a := range e.Attributes {
		attrs[a.Column] = a
	}
	joinCols := make(map[string]bool)
	for _, col := range querysql.JoinColumns(s.schema, e) {
		joinCols[col] = true
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		if _, ok := attrs[col]; !ok && !joinCols[col] {
			return nil, nil, fmt.Errorf("unknown column %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		attr, ok := attrs[col]
		if !ok {
			args[i] = values[col]
			continue
		}
		param, err := querysql.Param(attr, values[col])
		if err != nil {
			return nil, nil, err
		}
		args[i] = param
	}
	return cols, args, nil
}

// writeExecution appends an execution to the log.
func (s *Store) writeExecution(ctx context.Context, exec Execution) error {
	params, err := marshalParams(exec.Params)
	if err != nil {
		return fmt.Errorf("write execution: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO specb_executions
		(id, kind, root, query, params, row_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		exec.ID,
		string(exec.Kind),
		exec.Root,
		exec.Query,
		params,
		exec.Rows,
	)
	if err != nil {
		return fmt.Errorf("write execution: %w", err)
	}
	return nil
}
