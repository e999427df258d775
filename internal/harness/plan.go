package harness

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/roach88/specbuilder/internal/binding"
	"github.com/roach88/specbuilder/internal/compiler"
	"github.com/roach88/specbuilder/internal/paging"
	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/schema"
	"github.com/roach88/specbuilder/internal/specification"
	"github.com/roach88/specbuilder/internal/testutil"
)

// ErrInvalidPage is the diagnostic code for a page request that can not
// be turned into a page: a negative page number or an unbound sort property.
const ErrInvalidPage = "E106"

// Plan is a scenario resolved against its schema: the bindings a service
// would register and the decoded client request. It builds the query
// without touching a database.
type Plan struct {
	Schema  *schema.Schema
	Root    schema.Entity
	Request paging.Request

	filters *specification.Builder
	sorts   *paging.SortBuilder
}

// LoadSchema returns the scenario's CUE schema, or the built-in fixture
// schema when the scenario names none.
func LoadSchema(scenario *Scenario) (*schema.Schema, error) {
	if scenario.Schema == "" {
		return testutil.Schema(), nil
	}
	sch, err := schema.Load(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return sch, nil
}

// NewPlan resolves the scenario's root, bindings and request against sch.
// A nil logger discards specification logs.
func NewPlan(sch *schema.Schema, scenario *Scenario, logger *slog.Logger) (*Plan, error) {
	if logger == nil {
		logger = discardLogger()
	}

	root, ok := sch.Entity(scenario.Root)
	if !ok {
		return nil, fmt.Errorf("unknown root entity %q", scenario.Root)
	}

	req, err := decodeRequest(scenario.Request)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Schema:  sch,
		Root:    root,
		Request: req,
		filters: specification.New(root, specification.WithLogger(logger)),
		sorts:   paging.NewSortBuilder(),
	}

	for i, b := range scenario.Bindings {
		attr, path, err := resolve(sch, b)
		if err != nil {
			return nil, fmt.Errorf("bindings[%d]: %w", i, err)
		}
		p.filters.BindJoinAs(propertyName(b, attr), attr, path...)
	}
	for i, b := range scenario.SortBindings {
		attr, _, err := resolve(sch, b)
		if err != nil {
			return nil, fmt.Errorf("sort_bindings[%d]: %w", i, err)
		}
		p.sorts.BindSortAs(propertyName(b, attr), attr)
	}

	return p, nil
}

// Select builds the specification and the page and applies both to a
// fresh root, the way a service handler answers a client request.
func (p *Plan) Select() (*query.Select, error) {
	spec, err := p.filters.Build(&p.Request.Criteria)
	if err != nil {
		return nil, err
	}

	page, err := p.sorts.Build(p.Request)
	if err != nil {
		return nil, err
	}

	sel := &query.Select{Root: query.NewRoot(p.Schema, p.Root), Page: page}
	if err := spec.Apply(sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Check reports every problem with the filter bindings, the criteria and
// the page request without stopping at the first.
func (p *Plan) Check() []compiler.Diagnostic {
	diags := p.filters.Check(&p.Request.Criteria)
	if _, err := p.sorts.Build(p.Request); err != nil {
		field := "page"
		if binding.IsUnbound(err) {
			field = "sortFields"
		}
		diags = append(diags, compiler.Diagnostic{Field: field, Message: err.Error(), Code: ErrInvalidPage})
	}
	return diags
}

func resolve(sch *schema.Schema, b BindingStep) (schema.Attribute, schema.JoinPath, error) {
	attr, err := sch.Attribute(b.Attribute)
	if err != nil {
		return schema.Attribute{}, nil, err
	}
	path, err := sch.Path(b.Path...)
	if err != nil {
		return schema.Attribute{}, nil, err
	}
	return attr, path, nil
}

func propertyName(b BindingStep, attr schema.Attribute) string {
	if b.Property != "" {
		return b.Property
	}
	return attr.Name
}

// decodeRequest converts the YAML request to the JSON request shape and
// decodes it the way a service would decode a client payload.
func decodeRequest(raw map[string]any) (paging.Request, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return paging.Request{}, fmt.Errorf("encode request: %w", err)
	}
	var req paging.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return paging.Request{}, err
	}
	return req, nil
}
