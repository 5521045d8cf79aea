package analytics

const (
	DefaultPageLimit  = 10
	MaxPageLimit      = 100
	DefaultTopLimit   = 10
	MaxTopLimit       = 50
	defaultPageNumber = 1
)

type PageRequest struct {
	Page  int
	Limit int
}

type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// DefaultPageRequest is the page callers use when the client sent none.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: defaultPageNumber, Limit: DefaultPageLimit}
}

// Normalize clamps out-of-range input instead of rejecting it. Defaults for
// absent values are the caller's job, so a zero limit clamps to 1.
func (p PageRequest) Normalize() PageRequest {
	out := p
	if out.Page < 1 {
		out.Page = defaultPageNumber
	}
	out.Limit = ClampLimit(out.Limit, MaxPageLimit)
	return out
}

// ClampLimit bounds limit to [1, max].
func ClampLimit(limit int, max int) int {
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}

// paginate returns the requested window of rows and its metadata. The
// request must already be normalized.
func paginate[T any](rows []T, request PageRequest) ([]T, PageMeta) {
	total := len(rows)
	pages := (total + request.Limit - 1) / request.Limit
	if pages < 1 {
		pages = 1
	}
	meta := PageMeta{Page: request.Page, Limit: request.Limit, Total: total, Pages: pages}

	// Compare page numbers before multiplying so huge pages cannot overflow.
	if request.Page > pages || total == 0 {
		return []T{}, meta
	}
	start := (request.Page - 1) * request.Limit
	end := start + request.Limit
	if end > total {
		end = total
	}
	return rows[start:end], meta
}
