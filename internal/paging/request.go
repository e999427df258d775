// Package paging compiles client sort and page requests.
//
// A Request carries the filter criteria together with the page number,
// page size and sort directives. Its JSON form is flat:
//
//	{
//	  "operations": [{"property": "name", "operator": "EQ", "value": "Ozay"}],
//	  "page": 0,
//	  "size": 10,
//	  "sortFields": [{"property": "birthDate", "direction": "DESC"}, {"property": "name"}]
//	}
//
// Sort properties are bound separately from filter properties, through a
// SortBuilder.
package paging

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/specbuilder/internal/operation"
	"github.com/roach88/specbuilder/internal/query"
)

// DefaultPageSize replaces any requested size of 1 or less.
const DefaultPageSize = 20

// Request is a filter plus a page request.
type Request struct {
	Criteria operation.Criteria
	Page     int
	Size     int
	Sort     []SortOrder // nil = unsorted
}

// PageSize returns Size, or DefaultPageSize when Size is 1 or less.
func (r Request) PageSize() int {
	if r.Size > 1 {
		return r.Size
	}
	return DefaultPageSize
}

type wireRequest struct {
	Page int         `json:"page"`
	Size int         `json:"size"`
	Sort []SortOrder `json:"sortFields,omitempty"`
}

// UnmarshalJSON decodes the flat request form.
func (r *Request) UnmarshalJSON(data []byte) error {
	var wire wireRequest
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode page request: %w", err)
	}
	var criteria operation.Criteria
	if err := json.Unmarshal(data, &criteria); err != nil {
		return fmt.Errorf("decode page request: %w", err)
	}

	r.Criteria = criteria
	r.Page = wire.Page
	r.Size = wire.Size
	r.Sort = wire.Sort
	return nil
}

// MarshalJSON encodes the flat request form.
func (r Request) MarshalJSON() ([]byte, error) {
	ops := r.Criteria.Operations
	if ops == nil {
		ops = []operation.Operation{}
	}
	return json.Marshal(struct {
		Operations []operation.Operation `json:"operations"`
		wireRequest
	}{
		Operations:  ops,
		wireRequest: wireRequest{Page: r.Page, Size: r.Size, Sort: r.Sort},
	})
}

// SortOrder is one client sort directive.
type SortOrder struct {
	Property  string          `json:"property"`
	Direction query.Direction `json:"direction"`
}

// Asc sorts property ascending.
func Asc(property string) SortOrder {
	return SortOrder{Property: property, Direction: query.Asc}
}

// Desc sorts property descending.
func Desc(property string) SortOrder {
	return SortOrder{Property: property, Direction: query.Desc}
}

// UnmarshalJSON defaults a missing direction to ASC and rejects unknown
// directions.
func (s *SortOrder) UnmarshalJSON(data []byte) error {
	var wire struct {
		Property  string `json:"property"`
		Direction string `json:"direction"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	dir := query.Asc
	switch wire.Direction {
	case "", string(query.Asc):
	case string(query.Desc):
		dir = query.Desc
	default:
		return fmt.Errorf("sort %q: unknown direction %q", wire.Property, wire.Direction)
	}

	s.Property = wire.Property
	s.Direction = dir
	return nil
}
