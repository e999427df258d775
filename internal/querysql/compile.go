package querysql

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/schema"
)

// TimeLayout is the stored text form of time attributes. Values are UTC,
// so text order matches time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLCompiler compiles a query.Select to parameterized SQL for SQLite.
//
// Every row query ends with ORDER BY, including the root primary key as a
// tiebreaker, so pages are deterministic. Values are always bound as
// parameters, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts sel to a row query. Returns (sql, params, error).
//
//	SELECT t0.id, t0.name FROM employees t0
//	INNER JOIN phones j1 ON j1.fk_employee_id = t0.id
//	WHERE j1.number = ? ORDER BY t0.name COLLATE BINARY ASC, t0.id ASC
//	LIMIT ? OFFSET ?
func (c *SQLCompiler) Compile(sel *query.Select) (string, []any, error) {
	if err := checkSelect(sel); err != nil {
		return "", nil, err
	}
	entity := sel.Root.Entity()

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(qualifiedColumns(sel.Root.Alias(), entity), ", "))

	params, err := c.writeBody(&b, sel)
	if err != nil {
		return "", nil, err
	}

	orderBy, err := c.orderBy(sel.Root, sel.Page)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(orderBy)

	if sel.Page.Paged() {
		b.WriteString(" LIMIT ? OFFSET ?")
		params = append(params, sel.Page.Size, sel.Page.Offset())
	}

	return b.String(), params, nil
}

// CompileCount converts sel to a query counting every matching row,
// ignoring the page.
func (c *SQLCompiler) CompileCount(sel *query.Select) (string, []any, error) {
	if err := checkSelect(sel); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT COUNT(*)")
	params, err := c.writeBody(&b, sel)
	if err != nil {
		return "", nil, err
	}
	return b.String(), params, nil
}

func checkSelect(sel *query.Select) error {
	if sel == nil {
		return fmt.Errorf("cannot compile nil select")
	}
	if sel.Root == nil {
		return fmt.Errorf("cannot compile select without root")
	}
	return nil
}

// writeBody writes the FROM, JOIN and WHERE clauses.
func (c *SQLCompiler) writeBody(b *strings.Builder, sel *query.Select) ([]any, error) {
	root := sel.Root
	fmt.Fprintf(b, " FROM %s %s", root.Entity().Table, root.Alias())

	for _, j := range root.Joins() {
		rel := j.Relation()
		fmt.Fprintf(b, " INNER JOIN %s %s ON %s.%s = %s.%s",
			j.Entity().Table, j.Alias(),
			j.Alias(), rel.ForeignColumn,
			j.Parent().Alias(), rel.LocalColumn)
	}

	if sel.Filter == nil {
		return nil, nil
	}
	where, params, err := c.compilePredicate(sel.Filter)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	b.WriteString(" WHERE ")
	b.WriteString(where)
	return params, nil
}

// orderBy renders the page orders followed by the primary-key tiebreaker.
// Text columns sort with COLLATE BINARY.
func (c *SQLCompiler) orderBy(root *query.Root, page query.Page) (string, error) {
	entity := root.Entity()
	parts := make([]string, 0, len(page.Orders)+1)
	hasKey := false

	for _, o := range page.Orders {
		attr, ok := entity.Attribute(o.Attribute)
		if !ok {
			return "", fmt.Errorf("sort attribute %q not found on %s", o.Attribute, entity.Name)
		}
		dir := o.Direction
		switch dir {
		case "":
			dir = query.Asc
		case query.Asc, query.Desc:
		default:
			return "", fmt.Errorf("sort attribute %q: unknown direction %q", o.Attribute, o.Direction)
		}

		term := root.Alias() + "." + attr.Column
		if attr.Type == schema.TypeString {
			term += " COLLATE BINARY"
		}
		parts = append(parts, term+" "+string(dir))
		if attr.Column == entity.PrimaryKey {
			hasKey = true
		}
	}

	if !hasKey {
		parts = append(parts, root.Alias()+"."+entity.PrimaryKey+" ASC")
	}
	return strings.Join(parts, ", "), nil
}

// compilePredicate compiles p to a WHERE fragment.
// Values NEVER interpolated - always ? placeholders.
func (c *SQLCompiler) compilePredicate(p query.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case query.Comparison:
		param, err := Param(pred.Path.Attribute, pred.Value)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s ?", pred.Path, pred.Op), []any{param}, nil

	case query.Between:
		low, err := Param(pred.Path.Attribute, pred.Low)
		if err != nil {
			return "", nil, err
		}
		high, err := Param(pred.Path.Attribute, pred.High)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s BETWEEN ? AND ?", pred.Path), []any{low, high}, nil

	case query.In:
		if len(pred.Values) == 0 {
			return "1 = 0", nil, nil // Empty set matches nothing
		}
		params := make([]any, len(pred.Values))
		for i, v := range pred.Values {
			param, err := Param(pred.Path.Attribute, v)
			if err != nil {
				return "", nil, err
			}
			params[i] = param
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")
		return fmt.Sprintf("%s IN (%s)", pred.Path, marks), params, nil

	case query.IsNull:
		if pred.Negated {
			return fmt.Sprintf("%s IS NOT NULL", pred.Path), nil, nil
		}
		return fmt.Sprintf("%s IS NULL", pred.Path), nil, nil

	case query.Boolean:
		if pred.Want {
			return fmt.Sprintf("%s = 1", pred.Path), nil, nil
		}
		return fmt.Sprintf("%s = 0", pred.Path), nil, nil

	case query.Like:
		return fmt.Sprintf("%s LIKE ?", pred.Path), []any{pred.Pattern}, nil

	case query.Not:
		inner, params, err := c.compilePredicate(pred.Predicate)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + inner + ")", params, nil

	case query.Conjunction:
		return c.compileAnd(pred)

	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileAnd compiles a conjunction. Nested conjunctions are parenthesized.
func (c *SQLCompiler) compileAnd(and query.Conjunction) (string, []any, error) {
	if and.IsAlwaysTrue() {
		return "1 = 1", nil, nil // Always true (vacuous truth)
	}

	sqlParts := make([]string, 0, len(and.Predicates))
	var allParams []any

	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		if _, nested := pred.(query.Conjunction); nested {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, " AND "), allParams, nil
}

// Param converts a coerced operand to its stored form for attr.
// Dates and times are stored as text.
func Param(attr schema.Attribute, v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if attr.Type == schema.TypeDate {
			return val.Format(time.DateOnly), nil
		}
		return val.UTC().Format(TimeLayout), nil
	case string, bool, int64, float64:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case float32:
		return float64(val), nil
	default:
		return nil, fmt.Errorf("attribute %s: unsupported parameter type %T", attr.ID(), v)
	}
}

// Columns returns the entity columns in declaration order.
func Columns(e schema.Entity) []string {
	cols := make([]string, len(e.Attributes))
	for i, a := range e.Attributes {
		cols[i] = a.Column
	}
	return cols
}

func qualifiedColumns(alias string, e schema.Entity) []string {
	cols := Columns(e)
	for i, col := range cols {
		cols[i] = alias + "." + col
	}
	return cols
}
