package schema

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// Compile builds a Schema from a CUE value holding a top-level `entity`
// struct. Uses the CUE SDK's Go API directly.
//
// Example:
//
//	entity: Employee: {
//		table:      "employee"
//		primaryKey: "id"
//		attributes: {
//			id:        "int"
//			name:      "string"
//			birthDate: {type: "date", column: "birth_date"}
//		}
//		relations: {
//			phones: {target: "Phone", kind: "one_to_many", foreignColumn: "employee_id"}
//		}
//	}
//
// An attribute is either a bare type name or a struct with `type` and an
// optional `column`. primaryKey defaults to "id".
func Compile(v cue.Value) (*Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	entitiesVal := v.LookupPath(cue.ParsePath("entity"))
	if !entitiesVal.Exists() {
		return nil, &CompileError{
			Field:   "entity",
			Message: "at least one entity is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := entitiesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var entities []Entity
	for iter.Next() {
		e, err := compileEntity(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}

	return New(entities...)
}

// CompileString compiles CUE source text into a Schema.
func CompileString(src string) (*Schema, error) {
	ctx := cuecontext.New()
	return Compile(ctx.CompileString(src))
}

// Load reads every CUE file of the package in dir and compiles the result.
func Load(dir string) (*Schema, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Compile(value)
}

func compileEntity(name string, v cue.Value) (Entity, error) {
	e := Entity{Name: name, PrimaryKey: "id"}
	field := "entity." + name

	table, ok, err := lookupString(v, "table")
	if err != nil {
		return e, err
	}
	if !ok {
		return e, &CompileError{Field: field + ".table", Message: "table is required", Pos: v.Pos()}
	}
	e.Table = table

	if pk, ok, err := lookupString(v, "primaryKey"); err != nil {
		return e, err
	} else if ok {
		e.PrimaryKey = pk
	}

	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if attrsVal.Exists() {
		iter, err := attrsVal.Fields()
		if err != nil {
			return e, formatCUEError(err)
		}
		for iter.Next() {
			a, err := compileAttribute(field, iter.Label(), iter.Value())
			if err != nil {
				return e, err
			}
			e.Attributes = append(e.Attributes, a)
		}
	}

	relsVal := v.LookupPath(cue.ParsePath("relations"))
	if relsVal.Exists() {
		iter, err := relsVal.Fields()
		if err != nil {
			return e, formatCUEError(err)
		}
		for iter.Next() {
			r, err := compileRelation(field, iter.Label(), iter.Value())
			if err != nil {
				return e, err
			}
			e.Relations = append(e.Relations, r)
		}
	}

	return e, nil
}

func compileAttribute(parent, name string, v cue.Value) (Attribute, error) {
	a := Attribute{Name: name}

	// Shorthand: `name: "string"`
	if typ, err := v.String(); err == nil {
		a.Type = Type(typ)
		return a, checkType(parent+".attributes."+name, a.Type, v.Pos())
	}

	typ, ok, err := lookupString(v, "type")
	if err != nil {
		return a, err
	}
	if !ok {
		return a, &CompileError{
			Field:   parent + ".attributes." + name,
			Message: "must be a type name or a struct with a type field",
			Pos:     v.Pos(),
		}
	}
	a.Type = Type(typ)

	if col, ok, err := lookupString(v, "column"); err != nil {
		return a, err
	} else if ok {
		a.Column = col
	}

	return a, checkType(parent+".attributes."+name, a.Type, v.Pos())
}

func compileRelation(parent, name string, v cue.Value) (Relation, error) {
	r := Relation{Name: name}
	field := parent + ".relations." + name

	target, ok, err := lookupString(v, "target")
	if err != nil {
		return r, err
	}
	if !ok {
		return r, &CompileError{Field: field + ".target", Message: "target is required", Pos: v.Pos()}
	}
	r.Target = target

	kind, ok, err := lookupString(v, "kind")
	if err != nil {
		return r, err
	}
	if !ok || !Kind(kind).Valid() {
		return r, &CompileError{
			Field:   field + ".kind",
			Message: fmt.Sprintf("kind must be one of %s, %s, %s", KindOneToOne, KindOneToMany, KindManyToOne),
			Pos:     v.Pos(),
		}
	}
	r.Kind = Kind(kind)

	if col, ok, err := lookupString(v, "localColumn"); err != nil {
		return r, err
	} else if ok {
		r.LocalColumn = col
	}
	if col, ok, err := lookupString(v, "foreignColumn"); err != nil {
		return r, err
	} else if ok {
		r.ForeignColumn = col
	}

	return r, nil
}

func checkType(field string, t Type, pos token.Pos) error {
	if t.Valid() {
		return nil
	}
	return &CompileError{
		Field:   field,
		Message: fmt.Sprintf("unsupported type %q (want one of %v)", t, ValidTypes),
		Pos:     pos,
	}
}

// lookupString returns the string at field, whether it exists, and any
// conversion error.
func lookupString(v cue.Value, field string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", false, nil
	}
	s, err := f.String()
	if err != nil {
		return "", true, formatCUEError(err)
	}
	return s, true, nil
}

// CompileError represents a schema compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
