package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

// RowStore implements rowstore.Store on database/sql with the modernc driver.
type RowStore struct {
	db  *sql.DB
	sql rowstore.SQLBuilder
}

func NewRowStore(db *sql.DB) *RowStore {
	return &RowStore{db: db, sql: rowstore.SQLiteSQL()}
}

func (s *RowStore) Insert(ctx context.Context, table string, rec rowstore.Record) (rowstore.Record, error) {
	query, args, err := s.sql.Insert(table, rec)
	if err != nil {
		return nil, rowstore.Wrap("insert", table, err)
	}

	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, rowstore.Wrap("insert", table, err)
	}
	if len(rows) == 0 {
		return nil, rowstore.Wrap("insert", table, fmt.Errorf("insert returned no row"))
	}
	return rows[0], nil
}

func (s *RowStore) SelectOne(ctx context.Context, table string, f rowstore.Filter) (rowstore.Record, error) {
	rows, err := s.SelectMany(ctx, table, f, rowstore.Range(0, 1))
	if err != nil {
		return nil, rowstore.Wrap("select one", table, err)
	}
	if len(rows) == 0 {
		return nil, rowstore.Wrap("select one", table, rowstore.ErrNoRows)
	}
	return rows[0], nil
}

func (s *RowStore) SelectMany(ctx context.Context, table string, f rowstore.Filter, opts ...rowstore.QueryOption) ([]rowstore.Record, error) {
	query, args, err := s.sql.Select(table, f, rowstore.BuildQuery(opts...))
	if err != nil {
		return nil, rowstore.Wrap("select", table, err)
	}

	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, rowstore.Wrap("select", table, err)
	}
	return rows, nil
}

func (s *RowStore) Update(ctx context.Context, table string, f rowstore.Filter, patch rowstore.Record) (rowstore.Record, error) {
	query, args, err := s.sql.Update(table, f, patch)
	if err != nil {
		return nil, rowstore.Wrap("update", table, err)
	}

	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, rowstore.Wrap("update", table, err)
	}
	if len(rows) == 0 {
		return nil, rowstore.Wrap("update", table, rowstore.ErrNoRows)
	}
	return rows[0], nil
}

func (s *RowStore) query(ctx context.Context, query string, args []any) ([]rowstore.Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("sqlite db is nil")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := make([]rowstore.Record, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make(rowstore.Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func mapError(err error) error {
	var sqlErr *sqlitedrv.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", rowstore.ErrConflict, sqlErr.Error())
		}
	}
	return err
}
