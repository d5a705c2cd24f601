package rowstore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// SQLBuilder renders rowstore operations as SQL for a given placeholder style.
type SQLBuilder struct {
	placeholder func(n int) string
	noLimit     string
}

// PostgresSQL uses $n placeholders.
func PostgresSQL() SQLBuilder {
	return SQLBuilder{
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		noLimit:     "ALL",
	}
}

// SQLiteSQL uses ?n placeholders.
func SQLiteSQL() SQLBuilder {
	return SQLBuilder{
		placeholder: func(n int) string { return "?" + strconv.Itoa(n) },
		noLimit:     "-1",
	}
}

func (b SQLBuilder) Insert(table string, rec Record) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("table is required")
	}
	if len(rec) == 0 {
		return "", nil, fmt.Errorf("insert into %s: empty record", table)
	}

	columns := sortedColumns(rec)
	names := make([]string, 0, len(columns))
	marks := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, col := range columns {
		names = append(names, quoteIdent(col))
		marks = append(marks, b.placeholder(i+1))
		args = append(args, rec[col])
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoteIdent(table),
		strings.Join(names, ", "),
		strings.Join(marks, ", "),
	)
	return sql, args, nil
}

func (b SQLBuilder) Select(table string, f Filter, q Query) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("table is required")
	}
	if err := f.Validate(); err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(quoteIdent(table))

	where, args := b.where(f, nil)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if len(q.Orders) > 0 {
		parts := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			if o.Column == "" {
				return "", nil, fmt.Errorf("order column is required")
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, quoteIdent(o.Column)+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	switch {
	case q.Limit > 0:
		sb.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	case q.Offset > 0:
		sb.WriteString(" LIMIT " + b.noLimit)
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET " + strconv.Itoa(q.Offset))
	}

	return sb.String(), args, nil
}

func (b SQLBuilder) Update(table string, f Filter, patch Record) (string, []any, error) {
	if table == "" {
		return "", nil, fmt.Errorf("table is required")
	}
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("update %s: empty patch", table)
	}
	if err := f.Validate(); err != nil {
		return "", nil, err
	}

	columns := sortedColumns(patch)
	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		args = append(args, patch[col])
		sets = append(sets, quoteIdent(col)+" = "+b.placeholder(len(args)))
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", quoteIdent(table), strings.Join(sets, ", "))
	where, args := b.where(f, args)
	if where != "" {
		sql += " WHERE " + where
	}
	sql += " RETURNING *"
	return sql, args, nil
}

func (b SQLBuilder) where(f Filter, args []any) (string, []any) {
	parts := make([]string, 0, len(f.All)+1)
	for _, c := range f.All {
		var expr string
		expr, args = b.cond(c, args)
		parts = append(parts, expr)
	}

	if len(f.Any) > 0 {
		alternatives := make([]string, 0, len(f.Any))
		for _, group := range f.Any {
			conj := make([]string, 0, len(group))
			for _, c := range group {
				var expr string
				expr, args = b.cond(c, args)
				conj = append(conj, expr)
			}
			alternatives = append(alternatives, "("+strings.Join(conj, " AND ")+")")
		}
		parts = append(parts, "("+strings.Join(alternatives, " OR ")+")")
	}

	return strings.Join(parts, " AND "), args
}

func (b SQLBuilder) cond(c Cond, args []any) (string, []any) {
	col := quoteIdent(c.Column)
	switch c.Op {
	case OpEq:
		if c.Value == nil {
			return col + " IS NULL", args
		}
		args = append(args, c.Value)
		return col + " = " + b.placeholder(len(args)), args
	case OpNeq:
		if c.Value == nil {
			return col + " IS NOT NULL", args
		}
		args = append(args, c.Value)
		return "(" + col + " <> " + b.placeholder(len(args)) + " OR " + col + " IS NULL)", args
	case OpIn, OpNotIn:
		list, _ := c.Value.([]any)
		if len(list) == 0 {
			if c.Op == OpIn {
				return "1 = 0", args
			}
			return "1 = 1", args
		}
		marks := make([]string, 0, len(list))
		for _, v := range list {
			args = append(args, v)
			marks = append(marks, b.placeholder(len(args)))
		}
		kw := " IN "
		if c.Op == OpNotIn {
			kw = " NOT IN "
		}
		return col + kw + "(" + strings.Join(marks, ", ") + ")", args
	default:
		return "1 = 0", args
	}
}

func sortedColumns(rec Record) []string {
	columns := make([]string, 0, len(rec))
	for col := range rec {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
