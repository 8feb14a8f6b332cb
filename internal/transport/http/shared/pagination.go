package shared

import (
	"net/http"
	"strconv"
)

// PageSize is the fixed page size for every list endpoint.
const PageSize = 20

// Page is the list-response envelope: total row count, links to the
// neighbouring pages, and the current page of results.
type Page struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// ParsePage reads the 1-based page number from the query string. Anything
// unparsable or below 1 falls back to the first page.
func ParsePage(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PageWindow converts a page number into the LIMIT/OFFSET pair for the store.
func PageWindow(page int) (int, int) {
	return PageSize, (page - 1) * PageSize
}

// NewPage assembles the envelope, deriving next/previous links from the
// request URL so query filters are preserved.
func NewPage(r *http.Request, page, total int, results any) Page {
	out := Page{Count: total, Results: results}
	if page*PageSize < total {
		out.Next = pageLink(r, page+1)
	}
	if page > 1 {
		out.Previous = pageLink(r, page-1)
	}
	return out
}

func pageLink(r *http.Request, page int) *string {
	link := *r.URL
	query := link.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	link.RawQuery = query.Encode()
	value := link.String()
	return &value
}
