// Package rowstore is the row-oriented data access boundary the services talk to.
// Backends live in repo/postgres, repo/sqlite and in this package (memory).
package rowstore

import "context"

// Record is one row keyed by column name.
type Record map[string]any

type Store interface {
	Insert(ctx context.Context, table string, rec Record) (Record, error)
	// SelectOne returns ErrNoRows (wrapped in DataError) when nothing matches.
	SelectOne(ctx context.Context, table string, f Filter) (Record, error)
	SelectMany(ctx context.Context, table string, f Filter, opts ...QueryOption) ([]Record, error)
	// Update patches every matching row and returns the first one. ErrNoRows when nothing matched.
	Update(ctx context.Context, table string, f Filter, patch Record) (Record, error)
}

type Order struct {
	Column string
	Desc   bool
}

type Query struct {
	Orders []Order
	Offset int
	Limit  int
}

type QueryOption func(*Query)

func OrderBy(column string, desc bool) QueryOption {
	return func(q *Query) {
		q.Orders = append(q.Orders, Order{Column: column, Desc: desc})
	}
}

// Range limits the result to rows [offset, offset+limit). A non-positive limit means no limit.
func Range(offset, limit int) QueryOption {
	return func(q *Query) {
		if offset < 0 {
			offset = 0
		}
		q.Offset = offset
		q.Limit = limit
	}
}

func BuildQuery(opts ...QueryOption) Query {
	var q Query
	for _, opt := range opts {
		if opt != nil {
			opt(&q)
		}
	}
	return q
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
