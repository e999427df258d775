package paging

import (
	"fmt"

	"github.com/roach88/specbuilder/internal/binding"
	"github.com/roach88/specbuilder/internal/query"
	"github.com/roach88/specbuilder/internal/schema"
)

// SortBuilder maps client sort properties to root attributes.
//
// Sort bindings never traverse relationships, and every bound attribute
// must belong to the same entity. The first binding for a property wins.
type SortBuilder struct {
	bindings *binding.Registry
	entity   string
	err      error
}

// NewSortBuilder creates an empty sort builder.
func NewSortBuilder() *SortBuilder {
	return &SortBuilder{bindings: binding.NewSortRegistry()}
}

// BindSort binds attr under its own name.
func (b *SortBuilder) BindSort(attr schema.Attribute) *SortBuilder {
	return b.BindSortAs(attr.Name, attr)
}

// BindSortAs binds property to attr unless property is already bound.
func (b *SortBuilder) BindSortAs(property string, attr schema.Attribute) *SortBuilder {
	if b.err != nil {
		return b
	}
	if property == "" {
		b.err = fmt.Errorf("bind sort %s: property can not be empty", attr.ID())
		return b
	}
	if b.entity == "" {
		b.entity = attr.Entity
	} else if attr.Entity != b.entity {
		b.err = fmt.Errorf("bind sort %q: attribute %s does not belong to %s", property, attr.ID(), b.entity)
		return b
	}
	b.bindings.Put(binding.Binding{Property: property, Attribute: attr})
	return b
}

// Bindings returns the sort bindings.
func (b *SortBuilder) Bindings() *binding.Registry {
	return b.bindings
}

// Build compiles req into a page. A request without sort directives is
// unsorted. An unbound sort property fails with a *binding.LookupError.
func (b *SortBuilder) Build(req Request) (query.Page, error) {
	if b.err != nil {
		return query.Page{}, b.err
	}

	page := query.Page{Number: req.Page, Size: req.PageSize()}
	if page.Number < 0 {
		return query.Page{}, fmt.Errorf("page number %d is negative", req.Page)
	}
	if len(req.Sort) == 0 {
		return page, nil
	}

	page.Orders = make([]query.Order, 0, len(req.Sort))
	for _, s := range req.Sort {
		bound, err := b.bindings.Lookup(s.Property)
		if err != nil {
			return query.Page{}, err
		}
		dir := s.Direction
		if dir == "" {
			dir = query.Asc
		}
		page.Orders = append(page.Orders, query.Order{Attribute: bound.Attribute.Name, Direction: dir})
	}
	return page, nil
}
