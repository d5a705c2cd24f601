package rowstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store. Rows are kept in insertion order. Unique keys
// declared with WithUniqueKey reject duplicate non-empty values with ErrConflict.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Record
	unique map[string][]string
}

type MemoryOption func(*Memory)

func WithUniqueKey(table, column string) MemoryOption {
	return func(m *Memory) {
		m.unique[table] = append(m.unique[table], column)
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		tables: make(map[string][]Record),
		unique: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewMemoryWithSchema declares the unique keys of schema.sql.
func NewMemoryWithSchema() *Memory {
	return NewMemory(
		WithUniqueKey("matches", "pair_key"),
		WithUniqueKey("channels", "pair_key"),
		WithUniqueKey("profiles", "id"),
		WithUniqueKey("interests", "id"),
		WithUniqueKey("matches", "id"),
		WithUniqueKey("channels", "id"),
		WithUniqueKey("messages", "id"),
		WithUniqueKey("channel_members", "id"),
		WithUniqueKey("channel_members", "member_key"),
		WithUniqueKey("channel_invitations", "id"),
		WithUniqueKey("channel_invitations", "invite_key"),
	)
}

func (m *Memory) Insert(ctx context.Context, table string, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, Wrap("insert", table, err)
	}
	if len(rec) == 0 {
		return nil, Wrap("insert", table, fmt.Errorf("empty record"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, col := range m.unique[table] {
		value, ok := rec[col]
		if !ok || isEmptyKey(value) {
			continue
		}
		for _, existing := range m.tables[table] {
			if valuesEqual(existing[col], value) {
				return nil, Wrap("insert", table, fmt.Errorf("%w: %s", ErrConflict, col))
			}
		}
	}

	row := rec.Clone()
	m.tables[table] = append(m.tables[table], row)
	return row.Clone(), nil
}

func (m *Memory) SelectOne(ctx context.Context, table string, f Filter) (Record, error) {
	rows, err := m.SelectMany(ctx, table, f, Range(0, 1))
	if err != nil {
		return nil, Wrap("select one", table, err)
	}
	if len(rows) == 0 {
		return nil, Wrap("select one", table, ErrNoRows)
	}
	return rows[0], nil
}

func (m *Memory) SelectMany(ctx context.Context, table string, f Filter, opts ...QueryOption) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, Wrap("select", table, err)
	}
	if err := f.Validate(); err != nil {
		return nil, Wrap("select", table, err)
	}
	q := BuildQuery(opts...)

	m.mu.RLock()
	matched := make([]Record, 0)
	for _, row := range m.tables[table] {
		if f.Match(row) {
			matched = append(matched, row.Clone())
		}
	}
	m.mu.RUnlock()

	if len(q.Orders) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, o := range q.Orders {
				c := compareValues(matched[i][o.Column], matched[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return []Record{}, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (m *Memory) Update(ctx context.Context, table string, f Filter, patch Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, Wrap("update", table, err)
	}
	if len(patch) == 0 {
		return nil, Wrap("update", table, fmt.Errorf("empty patch"))
	}
	if err := f.Validate(); err != nil {
		return nil, Wrap("update", table, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var first Record
	for _, row := range m.tables[table] {
		if !f.Match(row) {
			continue
		}
		for col, value := range patch {
			row[col] = value
		}
		if first == nil {
			first = row.Clone()
		}
	}
	if first == nil {
		return nil, Wrap("update", table, ErrNoRows)
	}
	return first, nil
}

// Len reports how many rows a table holds.
func (m *Memory) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func isEmptyKey(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return compareOrdered(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return compareOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return compareOrdered(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
