// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 12
	maxPageSize     = 60
)

var errInvalidPage = errors.New("invalid page")

// Page is a paginated list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pageParams is the parsed page/page_size query.
type pageParams struct {
	Page int
	Size int
}

func (p pageParams) Offset() int { return (p.Page - 1) * p.Size }

// parsePage reads page and page_size. A non-numeric or non-positive page
// is invalid; page_size falls back to the default and is capped.
func parsePage(q url.Values) (pageParams, error) {
	p := pageParams{Page: 1, Size: defaultPageSize}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, errInvalidPage
		}
		p.Page = n
	}
	if raw := q.Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Size = min(n, maxPageSize)
		}
	}
	return p, nil
}

// buildPage wraps results with absolute next/previous links. An empty
// page beyond the first is invalid.
func buildPage[T any](r *http.Request, origin string, p pageParams, total int, results []T) (Page[T], error) {
	if p.Page > 1 && len(results) == 0 {
		return Page[T]{}, errInvalidPage
	}
	if results == nil {
		results = []T{}
	}
	out := Page[T]{Count: total, Results: results}
	if p.Offset()+len(results) < total {
		out.Next = pageLink(r, origin, p.Page+1)
	}
	if p.Page > 1 {
		out.Previous = pageLink(r, origin, p.Page-1)
	}
	return out, nil
}

// pageLink rebuilds the request URL with a different page. Page 1 drops
// the parameter.
func pageLink(r *http.Request, origin string, page int) *string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := origin + r.URL.Path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return &u
}
