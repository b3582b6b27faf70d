package api

import (
	"errors"
	"net/http"
	"strconv"
)

// PaginationParams holds parsed pagination values from query params.
type PaginationParams struct {
	Page    int
	PerPage int
}

// ParsePagination extracts page and per_page from query params. Missing
// values take the defaults; range checks are left to the service.
func ParsePagination(r *http.Request, defaultPerPage int) (PaginationParams, error) {
	p := PaginationParams{Page: 1, PerPage: defaultPerPage}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.New("page must be an integer")
		}
		p.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, errors.New("per_page must be an integer")
		}
		p.PerPage = n
	}
	return p, nil
}
