package paging

// Page is one page of query results.
type Page[T any] struct {
	Content       []T
	Number        int // Zero-based
	Size          int
	TotalElements int64
}

// TotalPages returns the number of pages needed for TotalElements.
// An unpaged result is a single page.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 1
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

// Result is the client view of a page.
type Result[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
}

// ResultFrom converts page content with mapFn, so callers can expose
// different names than their entities use.
func ResultFrom[T, R any](page Page[T], mapFn func(T) R) Result[R] {
	content := make([]R, len(page.Content))
	for i, v := range page.Content {
		content[i] = mapFn(v)
	}
	return Result[R]{
		Content:       content,
		TotalElements: page.TotalElements,
		CurrentPage:   page.Number,
		TotalPages:    page.TotalPages(),
		Size:          page.Size,
	}
}
