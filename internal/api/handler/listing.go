package handler

import (
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/query"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// filter maps a query parameter onto a clause.
type filter struct {
	param   string
	field   string
	op      query.Operator
	numeric bool
}

func eqFilter(name string) filter { return filter{param: name, field: name, op: query.OpEquals} }
func containsFilter(name string) filter {
	return filter{param: name, field: name, op: query.OpContains}
}
func numberFilter(name string) filter {
	return filter{param: name, field: name, op: query.OpEquals, numeric: true}
}

// listing is a parsed ?page=&limit=&sort=field:dir request.
type listing struct {
	page  int
	limit int
	spec  query.Spec
}

// parseListing reads pagination, sorting and the whitelisted filters.
// Sorting is limited to sortable fields.
func parseListing(c echo.Context, sortable []string, filters ...filter) (listing, error) {
	l := listing{page: 1, limit: defaultPageSize}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return listing{}, domain.Invalidf("page must be a positive integer")
		}
		l.page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return listing{}, domain.Invalidf("limit must be a positive integer")
		}
		l.limit = min(n, maxPageSize)
	}

	opts := []query.Option{query.Skip((l.page - 1) * l.limit), query.Take(l.limit)}
	if v := c.QueryParam("sort"); v != "" {
		field, dir, _ := strings.Cut(v, ":")
		if !slices.Contains(sortable, field) {
			return listing{}, domain.Invalidf("cannot sort by %q", field)
		}
		d := query.Asc
		if dir != "" {
			parsed, err := query.ParseDirection(dir)
			if err != nil {
				return listing{}, err
			}
			d = parsed
		}
		opts = append(opts, query.OrderBy(field, d))
	}

	var clauses []query.Clause
	for _, f := range filters {
		v := c.QueryParam(f.param)
		if v == "" {
			continue
		}
		switch {
		case f.numeric:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return listing{}, domain.Invalidf("%s must be a number", f.param)
			}
			clauses = append(clauses, query.Eq(f.field, n))
		case f.op == query.OpContains:
			clauses = append(clauses, query.Contains(f.field, v))
		default:
			clauses = append(clauses, query.Eq(f.field, v))
		}
	}
	if len(clauses) > 0 {
		opts = append(opts, query.Filter(clauses...))
	}

	spec, err := query.New(opts...)
	if err != nil {
		return listing{}, err
	}
	l.spec = spec
	return l, nil
}

func (l listing) pagination(total int) paginationResponse {
	pages := 0
	if l.limit > 0 {
		pages = (total + l.limit - 1) / l.limit
	}
	return paginationResponse{Total: total, Page: l.page, Limit: l.limit, TotalPages: pages}
}
