package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

const pgUniqueViolation = "23505"

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RowStore implements rowstore.Store over a pgx pool or transaction.
type RowStore struct {
	db  querier
	sql rowstore.SQLBuilder
}

func NewRowStore(db querier) *RowStore {
	return &RowStore{db: db, sql: rowstore.PostgresSQL()}
}

func (s *RowStore) Insert(ctx context.Context, table string, rec rowstore.Record) (rowstore.Record, error) {
	query, args, err := s.sql.Insert(table, rec)
	if err != nil {
		return nil, rowstore.Wrap("insert", table, err)
	}

	rows, err := s.collect(ctx, query, args)
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

	rows, err := s.collect(ctx, query, args)
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

	rows, err := s.collect(ctx, query, args)
	if err != nil {
		return nil, rowstore.Wrap("update", table, err)
	}
	if len(rows) == 0 {
		return nil, rowstore.Wrap("update", table, rowstore.ErrNoRows)
	}
	return rows[0], nil
}

func (s *RowStore) collect(ctx context.Context, query string, args []any) ([]rowstore.Record, error) {
	if s.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]rowstore.Record, 0, len(maps))
	for _, m := range maps {
		out = append(out, rowstore.Record(m))
	}
	return out, nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", rowstore.ErrConflict, pgErr.ConstraintName)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return rowstore.ErrNoRows
	}
	return err
}
