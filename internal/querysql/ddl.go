package querysql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/specbuilder/internal/schema"
)

// CreateTable returns the DDL statements creating the table of e and its
// join-column indexes.
//
// Besides the attribute columns, the table carries every join column that
// a relation of the schema needs on it and that is not already an
// attribute: the LocalColumn of e's own relations and the ForeignColumn of
// relations targeting e. Join columns are INTEGER. A join column on e that
// points at another table's primary key gets a REFERENCES clause.
func CreateTable(s *schema.Schema, e schema.Entity) []string {
	var cols []string
	for _, a := range e.Attributes {
		def := fmt.Sprintf("%s %s", a.Column, columnType(a.Type))
		if a.Column == e.PrimaryKey {
			def += " PRIMARY KEY"
		}
		cols = append(cols, def)
	}

	extra := JoinColumns(s, e)
	refs := references(s, e)
	for _, col := range extra {
		def := col + " INTEGER"
		if ref, ok := refs[col]; ok {
			def += " REFERENCES " + ref
		}
		cols = append(cols, def)
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", e.Table, strings.Join(cols, ",\n    ")),
	}
	for _, col := range extra {
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", e.Table, col, e.Table, col))
	}
	return stmts
}

// JoinColumns returns the join columns of e that are not attributes, sorted.
func JoinColumns(s *schema.Schema, e schema.Entity) []string {
	attrCols := make(map[string]bool, len(e.Attributes))
	for _, a := range e.Attributes {
		attrCols[a.Column] = true
	}
	attrCols[e.PrimaryKey] = true

	seen := make(map[string]bool)
	add := func(col string) {
		if !attrCols[col] {
			seen[col] = true
		}
	}

	for _, r := range e.Relations {
		add(r.LocalColumn)
	}
	for _, other := range s.Entities() {
		for _, r := range other.Relations {
			if r.Target == e.Name {
				add(r.ForeignColumn)
			}
		}
	}

	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// references maps join columns of e to the "table(pk)" they point at.
func references(s *schema.Schema, e schema.Entity) map[string]string {
	refs := make(map[string]string)
	for _, r := range e.Relations {
		target, ok := s.Entity(r.Target)
		if ok && r.ForeignColumn == target.PrimaryKey && r.LocalColumn != e.PrimaryKey {
			refs[r.LocalColumn] = fmt.Sprintf("%s(%s)", target.Table, target.PrimaryKey)
		}
	}
	return refs
}

func columnType(t schema.Type) string {
	switch t {
	case schema.TypeInt, schema.TypeBool:
		return "INTEGER"
	case schema.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
