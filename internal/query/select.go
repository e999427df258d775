package query

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order sorts by a root attribute.
type Order struct {
	Attribute string // Root attribute name
	Direction Direction
}

// Page is a compiled sort/page request.
//
// Number is zero-based. Size 0 means unpaged (no LIMIT). No Orders means
// unsorted; renderers still append a primary-key tiebreaker.
type Page struct {
	Number int
	Size   int
	Orders []Order
}

// Unpaged returns a page covering all rows, unsorted.
func Unpaged() Page {
	return Page{}
}

// Sorted reports whether the page carries sort orders.
func (p Page) Sorted() bool {
	return len(p.Orders) > 0
}

// Paged reports whether the page limits the number of rows.
func (p Page) Paged() bool {
	return p.Size > 0
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	if !p.Paged() || p.Number < 0 {
		return 0
	}
	return p.Number * p.Size
}

// Select is a complete query: a root with its joins, a filter and a page.
//
// Semantics:
//
//	SELECT <root columns> FROM <root> [INNER JOIN ...]
//	WHERE <filter> ORDER BY <orders>, <root pk> LIMIT <size> OFFSET <offset>
type Select struct {
	Root   *Root
	Filter Predicate // nil = no filter
	Page   Page
}
