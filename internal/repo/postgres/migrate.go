package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schemaSQL string

// Arbitrary, but fixed: every replica must contend on the same key.
const migrateLockKey int64 = 0x6e6172616e6a61

// Migrate applies the table and index definitions. Every statement is
// idempotent; the advisory lock serializes replicas starting together.
func Migrate(ctx context.Context, db TxStarter) error {
	return InTx(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", migrateLockKey); err != nil {
			return fmt.Errorf("acquire migrate lock: %w", err)
		}
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
}
