package rowstore

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows   = errors.New("no rows")
	ErrConflict = errors.New("unique constraint violation")
)

// DataError is returned by every backend when the store rejects or fails an operation.
type DataError struct {
	Op    string
	Table string
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func Wrap(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var de *DataError
	if errors.As(err, &de) {
		return err
	}
	return &DataError{Op: op, Table: table, Err: err}
}

func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
