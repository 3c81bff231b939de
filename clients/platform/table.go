package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Query builds a request against one of the platform's data tables. Only
// the operations this application needs are covered: equality filters,
// ordering, limits and embedded-resource selects.
type Query struct {
	c       *Client
	table   string
	token   string
	selects string
	filters url.Values
	order   string
	limit   int
}

// From starts a query against a table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, filters: url.Values{}}
}

// Auth sets the bearer token for the query; without it the anon key is used.
func (q *Query) Auth(token string) *Query {
	q.token = token
	return q
}

// Select sets the column (and embedded resource) list.
func (q *Query) Select(columns string) *Query {
	q.selects = columns
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column, value string) *Query {
	q.filters.Add(column, "eq."+value)
	return q
}

// Order sets the sort column.
func (q *Query) Order(column string, descending bool) *Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.order = column + "." + dir
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) query() url.Values {
	values := url.Values{}
	if q.selects != "" {
		values.Set("select", q.selects)
	}
	for column, filters := range q.filters {
		for _, f := range filters {
			values.Add(column, f)
		}
	}
	if q.order != "" {
		values.Set("order", q.order)
	}
	if q.limit > 0 {
		values.Set("limit", strconv.Itoa(q.limit))
	}
	return values
}

// Get fetches all matching rows into dest (a pointer to a slice).
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	return q.c.doRetry(ctx, http.MethodGet, restPath+"/"+q.table, q.query(), nil, q.token, nil, dest)
}

// Single fetches exactly one row into dest. Zero or multiple matches is an
// error on the platform side.
func (q *Query) Single(ctx context.Context, dest interface{}) error {
	headers := http.Header{"Accept": {"application/vnd.pgrst.object+json"}}
	return q.c.doRetry(ctx, http.MethodGet, restPath+"/"+q.table, q.query(), headers, q.token, nil, dest)
}

// Insert writes rows. When dest is non-nil the inserted representation is
// requested back and decoded into it.
func (q *Query) Insert(ctx context.Context, rows interface{}, dest interface{}) error {
	body, err := marshalBody(rows)
	if err != nil {
		return err
	}
	headers := http.Header{}
	if dest != nil {
		headers.Set("Prefer", "return=representation")
		headers.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.c.doRetry(ctx, http.MethodPost, restPath+"/"+q.table, q.query(), headers, q.token, body, dest)
}

// Upsert writes rows, merging with existing rows on the table's unique
// constraint instead of failing on a duplicate key.
func (q *Query) Upsert(ctx context.Context, rows interface{}) error {
	body, err := marshalBody(rows)
	if err != nil {
		return err
	}
	headers := http.Header{}
	headers.Set("Prefer", "resolution=merge-duplicates")
	return q.c.doRetry(ctx, http.MethodPost, restPath+"/"+q.table, q.query(), headers, q.token, body, nil)
}

// Update patches all matching rows.
func (q *Query) Update(ctx context.Context, patch interface{}) error {
	body, err := marshalBody(patch)
	if err != nil {
		return err
	}
	return q.c.doRetry(ctx, http.MethodPatch, restPath+"/"+q.table, q.query(), nil, q.token, body, nil)
}

// Delete removes all matching rows.
func (q *Query) Delete(ctx context.Context) error {
	return q.c.doRetry(ctx, http.MethodDelete, restPath+"/"+q.table, q.query(), nil, q.token, nil, nil)
}
